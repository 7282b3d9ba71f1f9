// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/AleutianAI/custdesk/pkg/logging"
	"github.com/AleutianAI/custdesk/services/customers/query"
	"github.com/AleutianAI/custdesk/services/customers/telemetry"
)

type CustdeskConfig struct {
	// Server: the HTTP service started by `custdesk serve`
	Server ServerConfig `yaml:"server"`

	// Tracing: OpenTelemetry export for the HTTP service
	Tracing TracingConfig `yaml:"tracing"`

	// Client: how the CLI and TUI reach a remote server
	Client ClientConfig `yaml:"client"`

	List    ListConfig    `yaml:"list"`
	Logging LoggingConfig `yaml:"logging"`

	// SeedFile: optional YAML file of demo customers loaded at startup
	SeedFile string `yaml:"seed_file,omitempty"`
}

type ServerConfig struct {
	Addr           string  `yaml:"addr"`             // e.g. 127.0.0.1:8080
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`   // 0 disables limiting
	RateLimitBurst int     `yaml:"rate_limit_burst"` // bucket size
}

type TracingConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Exporter     string `yaml:"exporter"` // "otlp", "stdout" or "none"
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
}

type ClientConfig struct {
	// BaseURL: empty means commands run against an in-process store
	BaseURL string        `yaml:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

type ListConfig struct {
	PageSize int `yaml:"page_size"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`         // debug, info, warn, error
	Dir   string `yaml:"dir,omitempty"` // enables JSON file logging
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() CustdeskConfig {
	return CustdeskConfig{
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			RateLimitRPS:   50,
			RateLimitBurst: 100,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     telemetry.ExporterStdout,
			OTLPEndpoint: "localhost:4317",
			OTLPInsecure: true,
		},
		Client: ClientConfig{
			Timeout: 10 * time.Second,
		},
		List: ListConfig{
			PageSize: query.DefaultPageSize,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting, joined.
func (c CustdeskConfig) Validate() error {
	var errs []error
	if c.List.PageSize < 1 {
		errs = append(errs, fmt.Errorf("list.page_size must be at least 1, got %d", c.List.PageSize))
	}
	if c.Server.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit_rps must not be negative, got %v", c.Server.RateLimitRPS))
	}
	if c.Server.RateLimitBurst < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit_burst must not be negative, got %d", c.Server.RateLimitBurst))
	}
	if c.Client.Timeout < 0 {
		errs = append(errs, fmt.Errorf("client.timeout must not be negative, got %s", c.Client.Timeout))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case telemetry.ExporterOTLP, telemetry.ExporterStdout, telemetry.ExporterNone:
		default:
			errs = append(errs, fmt.Errorf("tracing.exporter %q is not one of otlp, stdout, none", c.Tracing.Exporter))
		}
	}
	return errors.Join(errs...)
}

// LoggerConfig translates the logging section for logging.New.
// Validate has already rejected bad levels, so a parse failure falls back
// to info.
func (c CustdeskConfig) LoggerConfig(service string) logging.Config {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.Config{
		Level:   level,
		LogDir:  c.Logging.Dir,
		Service: service,
		JSON:    c.Logging.JSON,
	}
}

// TelemetryConfig translates the tracing section for telemetry.Init.
func (c CustdeskConfig) TelemetryConfig() telemetry.Config {
	tc := telemetry.DefaultConfig()
	tc.TraceExporter = c.Tracing.Exporter
	if c.Tracing.OTLPEndpoint != "" {
		tc.OTLPEndpoint = c.Tracing.OTLPEndpoint
	}
	tc.OTLPInsecure = c.Tracing.OTLPInsecure
	return tc
}
