// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for redstub-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Executor ExecutorSection `koanf:"executor"`
	Limits   LimitsSection   `koanf:"limits"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures the listeners.
type ServerSection struct {
	// Addr is the RESP listener address.
	Addr string `koanf:"addr"`

	// MetricsAddr serves the Prometheus endpoint; empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`

	// ShutdownTimeout bounds graceful drain on exit.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ExecutorSection configures the command executor.
type ExecutorSection struct {
	// Seed fixes the random-pick stream. Zero means seed from the
	// clock unless SeedPhrase is set.
	Seed uint64 `koanf:"seed"`

	// SeedPhrase derives the seed from a phrase when Seed is zero.
	SeedPhrase string `koanf:"seed_phrase"`
}

// LimitsSection configures per-client limits.
type LimitsSection struct {
	// RateLimit is the per-IP commands-per-second budget; zero
	// disables limiting.
	RateLimit int `koanf:"rate_limit"`

	// MaxConns caps concurrently served connections.
	MaxConns int `koanf:"max_conns"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
