package config

import (
	"fmt"
	"time"
)

// Config is the full server configuration, populated from flags and
// LIARSDICE_-prefixed environment variables.
type Config struct {
	Bind        string
	Port        int
	RevealDelay time.Duration
	Verbose     bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.RevealDelay < 0 {
		return fmt.Errorf("reveal delay cannot be negative: %s", c.RevealDelay)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}
