package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/wsmon/internal/state"
)

const (
	DefaultConfigDir  = "wsmon"
	DefaultConfigFile = "config.yaml"
)

// configHome returns $XDG_CONFIG_HOME or ~/.config
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	return filepath.Join(configHome(), DefaultConfigDir, DefaultConfigFile)
}

// Default returns a config with every path filled in
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from the specified path or default location.
// If path is empty, ~/.config/wsmon/config.yaml then config.json are tried and
// a missing file yields defaults. An explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		yamlPath := GetConfigPath()
		jsonPath := filepath.Join(filepath.Dir(yamlPath), "config.json")
		for _, candidate := range []string{yamlPath, jsonPath} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return LoadConfigFromBytes(data, format)
}

// LoadConfigFromBytes loads configuration from raw bytes
// format should be "yaml" or "json"
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	var cfg Config

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills empty paths. SocketPath stays empty so the
// environment lookup in the client still applies.
func (c *Config) applyDefaults() {
	if c.Settings.OrderFile == "" {
		c.Settings.OrderFile = state.GetOrderPath()
	}
	if c.Settings.LockFile == "" {
		c.Settings.LockFile = state.DefaultLockPath
	}
	if c.Settings.PositionsFile == "" {
		c.Settings.PositionsFile = state.GetPositionsPath()
	}
}
