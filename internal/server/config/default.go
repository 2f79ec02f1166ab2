package config

import "time"

// Default returns the built-in configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr:            "127.0.0.1:6380",
			MetricsAddr:     "",
			ShutdownTimeout: 30 * time.Second,
		},
		Limits: LimitsSection{
			RateLimit: 0,
			MaxConns:  1024,
		},
		Log: LogSection{
			Level:  "info",
			Format: "json",
		},
	}
}
