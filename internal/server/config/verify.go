package config

import (
	"errors"
	"fmt"
	"strings"
)

// Verify checks the configuration for values that cannot work.
func (c *ServerConfig) Verify() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr must not be empty")
	}
	if c.Limits.RateLimit < 0 {
		return fmt.Errorf("config: limits.rate_limit must not be negative, got %d", c.Limits.RateLimit)
	}
	if c.Limits.MaxConns <= 0 {
		return fmt.Errorf("config: limits.max_conns must be positive, got %d", c.Limits.MaxConns)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	return nil
}
