package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace":    true,
	"debug":    true,
	"info":     true,
	"warn":     true,
	"error":    true,
	"fatal":    true,
	"panic":    true,
	"disabled": true,
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if err := validateSettings(&c.Settings); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

func validateSettings(s *Settings) error {
	paths := []struct {
		name  string
		value string
	}{
		{"socketPath", s.SocketPath},
		{"orderFile", s.OrderFile},
		{"lockFile", s.LockFile},
		{"positionsFile", s.PositionsFile},
	}
	for _, p := range paths {
		if p.value != "" && !filepath.IsAbs(p.value) {
			return fmt.Errorf("%s must be an absolute path, got %q", p.name, p.value)
		}
	}

	if s.OrderFile != "" && s.OrderFile == s.LockFile {
		return fmt.Errorf("lockFile must differ from orderFile")
	}

	if s.LogLevel != "" && !validLogLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("invalid logLevel: %s", s.LogLevel)
	}

	return nil
}
