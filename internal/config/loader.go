package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile loads a configuration from a YAML file.
// A missing file returns ErrConfigNotFound; a file that exists but does
// not parse is a fatal error and is never substituted with a default.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration file %s: %w", path, err)
	}

	if cfg.Hints == nil {
		cfg.Hints = make(map[string]HintConfig)
	}
	if cfg.Connector == "" {
		cfg.Connector = ConnectorHTTP
	}
	if len(cfg.Formatters) == 0 {
		cfg.Formatters = []string{FormatterSummary}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = Duration(DefaultTimeout)
	}

	return cfg, nil
}

// FindFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. .hintscanrc in the current directory
//  3. .hintscanrc in the user's home directory
//  4. config.yaml in the XDG config directory
//
// Returns the path to the configuration file, or empty string if none
// was found.
func FindFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	candidate := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return ""
}
