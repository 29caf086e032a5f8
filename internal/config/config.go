package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Scan modes
const (
	ScanModeMock = "mock"
	ScanModeHTTP = "http"
)

// Config holds all configuration for the SAGA console
type Config struct {
	// Governance service base URL (system of record for exceptions)
	GovernanceURL string `mapstructure:"governance_url"`

	// Scan backend: "mock" or "http"
	ScanMode string `mapstructure:"scan_mode"`

	// Scan service base URL, used when scan_mode is http
	ScanURL string `mapstructure:"scan_url"`

	// Simulated latency of the mock scan backend
	ScanLatency time.Duration `mapstructure:"scan_latency"`

	// How often to poll an asynchronous scan job
	ScanPollInterval time.Duration `mapstructure:"scan_poll_interval"`

	// Per-request HTTP timeout
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// Optional YAML or JSON file replacing the built-in baseline report set
	BaselineFile string `mapstructure:"baseline_file"`

	// Log destination for the interactive console
	LogFile string `mapstructure:"log_file"`

	// Log level (panic, fatal, error, warn, info, debug, trace)
	LogLevel string `mapstructure:"log_level"`

	// Output format for headless commands (text, json, yaml, ci)
	Format string `mapstructure:"format"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`

	// Debug mode
	Debug bool `mapstructure:"debug"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		GovernanceURL:    "http://localhost:8000",
		ScanMode:         ScanModeMock,
		ScanURL:          "http://localhost:8000",
		ScanLatency:      2500 * time.Millisecond,
		ScanPollInterval: time.Second,
		RequestTimeout:   10 * time.Second,
		LogFile:          "saga.log",
		LogLevel:         "info",
		Format:           "text",
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (./saga.yaml, ~/saga.yaml, $XDG_CONFIG_HOME/saga/saga.yaml)
// 3. Environment variables (SAGA_*)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path
// If path is empty, it searches for config in standard locations
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("governance_url", defaults.GovernanceURL)
	v.SetDefault("scan_mode", defaults.ScanMode)
	v.SetDefault("scan_url", defaults.ScanURL)
	v.SetDefault("scan_latency", defaults.ScanLatency)
	v.SetDefault("scan_poll_interval", defaults.ScanPollInterval)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("baseline_file", "")
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("verbose", false)
	v.SetDefault("debug", false)

	v.SetConfigName("saga")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "saga"))
		}
	}

	v.SetEnvPrefix("SAGA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"ci":   true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (must be text, json, yaml, or ci)", c.Format)
	}

	if c.ScanMode != ScanModeMock && c.ScanMode != ScanModeHTTP {
		return fmt.Errorf("invalid scan_mode: %s (must be mock or http)", c.ScanMode)
	}

	if err := validateURL("governance_url", c.GovernanceURL); err != nil {
		return err
	}
	if c.ScanMode == ScanModeHTTP {
		if err := validateURL("scan_url", c.ScanURL); err != nil {
			return err
		}
	}

	if c.ScanLatency < 0 {
		return fmt.Errorf("scan_latency cannot be negative")
	}
	if c.ScanPollInterval <= 0 {
		return fmt.Errorf("scan_poll_interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	return nil
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", key)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", key)
	}
	return nil
}

// EffectiveLogLevel resolves the log level with --verbose/--debug overrides.
func (c *Config) EffectiveLogLevel() logrus.Level {
	if c.Debug {
		return logrus.DebugLevel
	}
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if c.Verbose && lvl < logrus.InfoLevel {
		return logrus.InfoLevel
	}
	return lvl
}

// ConfigPath returns the default location for a user config file.
func ConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "saga", "saga.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "saga.yaml")
	}
	return "saga.yaml"
}

// GenerateSampleConfig generates a sample configuration file content
func GenerateSampleConfig() string {
	return `# SAGA console configuration
# Save this file as ./saga.yaml, ~/saga.yaml or $XDG_CONFIG_HOME/saga/saga.yaml
# Every key can also be set via SAGA_<KEY> environment variables.

# Governance service exposing /api/governance/exceptions
governance_url: http://localhost:8000

# Scan backend: mock (built-in baseline, simulated latency) or http
scan_mode: mock

# Scan service exposing POST /api/scans (scan_mode: http)
# scan_url: http://localhost:8000

# Simulated latency of the mock backend
scan_latency: 2.5s

# Poll interval for asynchronous scan jobs
scan_poll_interval: 1s

# Per-request HTTP timeout
request_timeout: 10s

# Replace the built-in baseline reports with a YAML or JSON file
# baseline_file: ./baseline.yaml

# Interactive console log file
log_file: saga.log
log_level: info

# Output format for headless commands: text, json, yaml or ci
format: text
`
}
