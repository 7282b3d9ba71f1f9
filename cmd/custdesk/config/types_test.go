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
	"strings"
	"testing"

	"github.com/AleutianAI/custdesk/pkg/logging"
	"github.com/AleutianAI/custdesk/services/customers/telemetry"
)

func TestDefaultConfig_Validates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestDefaultConfig_TracingOff(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Tracing.Enabled {
		t.Error("tracing should be off by default")
	}
	if cfg.Client.BaseURL != "" {
		t.Errorf("Client.BaseURL = %q, want empty (in-process)", cfg.Client.BaseURL)
	}
}

func TestValidate_AllErrorsReported(t *testing.T) {
	cfg := DefaultConfig()
	cfg.List.PageSize = 0
	cfg.Server.RateLimitBurst = -1
	cfg.Logging.Level = "chatty"
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "zipkin"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	for _, want := range []string{"page_size", "rate_limit_burst", "logging.level", "tracing.exporter"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestValidate_ExporterIgnoredWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.Exporter = "zipkin"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil with tracing disabled", err)
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "warn"
	cfg.Logging.Dir = "/tmp/logs"
	cfg.Logging.JSON = true

	lc := cfg.LoggerConfig("custdesk")
	if lc.Level != logging.LevelWarn {
		t.Errorf("Level = %v, want warn", lc.Level)
	}
	if lc.LogDir != "/tmp/logs" || !lc.JSON || lc.Service != "custdesk" {
		t.Errorf("LoggerConfig() = %+v", lc)
	}
}

func TestTelemetryConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.Exporter = telemetry.ExporterOTLP
	cfg.Tracing.OTLPEndpoint = "collector:4317"

	tc := cfg.TelemetryConfig()
	if tc.TraceExporter != telemetry.ExporterOTLP {
		t.Errorf("TraceExporter = %q", tc.TraceExporter)
	}
	if tc.OTLPEndpoint != "collector:4317" {
		t.Errorf("OTLPEndpoint = %q", tc.OTLPEndpoint)
	}
	if tc.ServiceName != "custdesk" {
		t.Errorf("ServiceName = %q", tc.ServiceName)
	}
}
