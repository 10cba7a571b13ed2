package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvLookupCommand = "REGTRIAGE_LOOKUP_COMMAND"
	EnvLookupTimeout = "REGTRIAGE_LOOKUP_TIMEOUT"
)

// LookupConfig names the diagnostic help tool.
type LookupConfig struct {
	Command string `toml:"command"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *LookupConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LookupConfig) Finalize() error {
	if c.Command == "" {
		c.Command = "msgHelp"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if v := os.Getenv(EnvLookupCommand); v != "" {
		c.Command = v
	}
	if v := os.Getenv(EnvLookupTimeout); v != "" {
		c.Timeout = v
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive: %s", c.Timeout)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *LookupConfig) Merge(overlay *LookupConfig) {
	if overlay.Command != "" {
		c.Command = overlay.Command
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}
