package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GovernanceURL != "http://localhost:8000" {
		t.Errorf("expected governance_url=http://localhost:8000, got %s", cfg.GovernanceURL)
	}
	if cfg.ScanMode != ScanModeMock {
		t.Errorf("expected scan_mode=mock, got %s", cfg.ScanMode)
	}
	if cfg.ScanLatency != 2500*time.Millisecond {
		t.Errorf("expected scan_latency=2.5s, got %s", cfg.ScanLatency)
	}
	if cfg.Format != "text" {
		t.Errorf("expected format=text, got %s", cfg.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func(mut func(c *Config)) Config {
		c := *DefaultConfig()
		mut(&c)
		return c
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid defaults",
			cfg:  *DefaultConfig(),
		},
		{
			name: "valid ci format",
			cfg:  valid(func(c *Config) { c.Format = "ci" }),
		},
		{
			name:    "invalid format",
			cfg:     valid(func(c *Config) { c.Format = "xml" }),
			wantErr: true,
			errMsg:  "invalid format",
		},
		{
			name:    "invalid scan mode",
			cfg:     valid(func(c *Config) { c.ScanMode = "grpc" }),
			wantErr: true,
			errMsg:  "invalid scan_mode",
		},
		{
			name:    "governance url without scheme",
			cfg:     valid(func(c *Config) { c.GovernanceURL = "localhost:8000" }),
			wantErr: true,
			errMsg:  "governance_url",
		},
		{
			name:    "empty governance url",
			cfg:     valid(func(c *Config) { c.GovernanceURL = "" }),
			wantErr: true,
			errMsg:  "governance_url cannot be empty",
		},
		{
			name:    "http mode requires scan url",
			cfg:     valid(func(c *Config) { c.ScanMode = ScanModeHTTP; c.ScanURL = "" }),
			wantErr: true,
			errMsg:  "scan_url",
		},
		{
			name:    "negative latency",
			cfg:     valid(func(c *Config) { c.ScanLatency = -time.Second }),
			wantErr: true,
			errMsg:  "scan_latency",
		},
		{
			name: "zero latency allowed",
			cfg:  valid(func(c *Config) { c.ScanLatency = 0 }),
		},
		{
			name:    "zero timeout",
			cfg:     valid(func(c *Config) { c.RequestTimeout = 0 }),
			wantErr: true,
			errMsg:  "request_timeout",
		},
		{
			name:    "zero poll interval",
			cfg:     valid(func(c *Config) { c.ScanPollInterval = 0 }),
			wantErr: true,
			errMsg:  "scan_poll_interval",
		},
		{
			name:    "bad log level",
			cfg:     valid(func(c *Config) { c.LogLevel = "loud" }),
			wantErr: true,
			errMsg:  "log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saga.yaml")
	content := []byte("governance_url: https://gov.example.com\nscan_latency: 100ms\nformat: json\nlog_level: debug\n")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.GovernanceURL != "https://gov.example.com" {
		t.Errorf("governance_url mismatch: %s", cfg.GovernanceURL)
	}
	if cfg.ScanLatency != 100*time.Millisecond {
		t.Errorf("scan_latency mismatch: %s", cfg.ScanLatency)
	}
	if cfg.Format != "json" {
		t.Errorf("format mismatch: %s", cfg.Format)
	}
	// untouched keys keep defaults
	if cfg.ScanMode != ScanModeMock {
		t.Errorf("expected default scan_mode, got %s", cfg.ScanMode)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saga.yaml")
	if err := os.WriteFile(path, []byte("scan_mode: carrier-pigeon\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saga.yaml")
	if err := os.WriteFile(path, []byte("governance_url: http://file:8000\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SAGA_GOVERNANCE_URL", "http://env:9000")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.GovernanceURL != "http://env:9000" {
		t.Errorf("expected env override, got %s", cfg.GovernanceURL)
	}
}

func TestSampleConfigLoads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saga.yaml")
	if err := os.WriteFile(path, []byte(GenerateSampleConfig()), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFromFile(path); err != nil {
		t.Errorf("sample config should load: %v", err)
	}
}

func TestConfigPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	expected := filepath.Join(dir, "saga", "saga.yaml")
	if got := ConfigPath(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestEffectiveLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	if cfg.EffectiveLogLevel() != logrus.WarnLevel {
		t.Errorf("expected warn, got %s", cfg.EffectiveLogLevel())
	}
	cfg.Verbose = true
	if cfg.EffectiveLogLevel() != logrus.InfoLevel {
		t.Errorf("expected verbose to raise to info, got %s", cfg.EffectiveLogLevel())
	}
	cfg.Debug = true
	if cfg.EffectiveLogLevel() != logrus.DebugLevel {
		t.Errorf("expected debug, got %s", cfg.EffectiveLogLevel())
	}
}
