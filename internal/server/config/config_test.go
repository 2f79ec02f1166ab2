package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:6380" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Limits.MaxConns != 1024 {
		t.Errorf("Limits.MaxConns = %d", cfg.Limits.MaxConns)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: "0.0.0.0:7000"
limits:
  rate_limit: 100
log:
  level: debug
executor:
  seed: 42
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader(WithConfigFile(path)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:7000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Limits.RateLimit != 100 {
		t.Errorf("Limits.RateLimit = %d", cfg.Limits.RateLimit)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Executor.Seed != 42 {
		t.Errorf("Executor.Seed = %d", cfg.Executor.Seed)
	}
	// Untouched sections keep their defaults.
	if cfg.Limits.MaxConns != 1024 {
		t.Errorf("Limits.MaxConns = %d", cfg.Limits.MaxConns)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REDSTUB_LOG_LEVEL", "error")

	cfg, err := NewLoader(WithConfigFile(path)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}
}

func TestVerifyRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"empty addr", func(c *ServerConfig) { c.Server.Addr = "" }},
		{"negative rate limit", func(c *ServerConfig) { c.Limits.RateLimit = -1 }},
		{"zero max conns", func(c *ServerConfig) { c.Limits.MaxConns = 0 }},
		{"bad log level", func(c *ServerConfig) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Verify(); err == nil {
				t.Error("Verify() accepted an invalid configuration")
			}
		})
	}
}
