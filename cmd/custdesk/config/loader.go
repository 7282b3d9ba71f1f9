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
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location when --config is unset.
const EnvConfigPath = "CUSTDESK_CONFIG"

var (
	// Global is a singleton instance
	Global CustdeskConfig
	once   sync.Once
)

// Load ensures the config at path is loaded into the Global variable.
// An empty path resolves through ResolvePath.
func Load(path string) error {
	var err error
	once.Do(func() {
		err = loadInternal(path)
	})
	return err
}

func loadInternal(path string) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}
	cfg, err := LoadFrom(resolved)
	if err != nil {
		return err
	}
	Global = cfg
	return nil
}

// ResolvePath picks the config file: the explicit path, then
// $CUSTDESK_CONFIG, then ~/.custdesk/custdesk.yaml.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".custdesk", "custdesk.yaml"), nil
}

// LoadFrom reads and validates the config at path, writing the defaults
// there first if the file does not exist. Keys missing from the file keep
// their default values.
func LoadFrom(path string) (CustdeskConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, " First run detected, creating the config at %s\n", path)
		if err := createDefault(path); err != nil {
			return CustdeskConfig{}, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return CustdeskConfig{}, fmt.Errorf("failed to read the config file %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CustdeskConfig{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return CustdeskConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory %w", err)
	}
	defaultCfg := DefaultConfig()
	data, err := yaml.Marshal(defaultCfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
