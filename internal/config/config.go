// Package config loads the optional qswitch configuration file. Missing
// files fall back to defaults; environment variables override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"qswitch/internal/code"
	"qswitch/internal/encode"
)

// Config holds all qswitch configuration.
type Config struct {
	// Defaults for run requests
	DefaultCode    string `yaml:"default_code"`
	DefaultInitial int    `yaml:"default_initial"`
	DecodeMode     string `yaml:"decode_mode"`

	// Suite execution
	SuiteWorkers int `yaml:"suite_workers"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultCode:    "surface13",
		DefaultInitial: 0,
		DecodeMode:     "raw",
		SuiteWorkers:   4,
		LogLevel:       "info",
	}
}

// Load loads configuration from a YAML file. A missing file returns the
// defaults; environment variables override either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("QSWITCH_CODE"); v != "" {
		c.DefaultCode = v
	}
	if v := os.Getenv("QSWITCH_INITIAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DefaultInitial = n
		}
	}
	if v := os.Getenv("QSWITCH_DECODE_MODE"); v != "" {
		c.DecodeMode = v
	}
	if v := os.Getenv("QSWITCH_SUITE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SuiteWorkers = n
		}
	}
	if v := os.Getenv("QSWITCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := code.ByName(c.DefaultCode); err != nil {
		return err
	}
	if c.DefaultInitial != 0 && c.DefaultInitial != 1 {
		return fmt.Errorf("default_initial must be 0 or 1, got %d", c.DefaultInitial)
	}
	if _, err := encode.ParseDecodeMode(c.DecodeMode); err != nil {
		return err
	}
	if c.SuiteWorkers <= 0 {
		return fmt.Errorf("suite_workers must be positive, got %d", c.SuiteWorkers)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}
	return nil
}
