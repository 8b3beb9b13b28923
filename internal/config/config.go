package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds levelup settings.
type Config struct {
	// DBPath is the SQLite file. Empty means ~/.levelup.db.
	DBPath string `yaml:"db_path" env:"DB_PATH"`

	// User selects whose XP ledger and tasks are used.
	User string `yaml:"user" env:"USER"`

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`   // debug, info, warn, error
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"` // console, json
}

const envPrefix = "LEVELUP_"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		User:      "default",
		LogLevel:  "warn",
		LogFormat: "console",
	}
}

// DefaultPath returns the config file location: $LEVELUP_CONFIG, or
// ~/.config/levelup/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(envPrefix + "CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "levelup", "config.yaml"), nil
}

// Load layers defaults, the YAML file at path and LEVELUP_* environment
// variables, in that order. A missing file is fine.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.User = strings.TrimSpace(cfg.User)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	return cfg, nil
}

func (c Config) Validate() error {
	if c.User == "" {
		return errors.New("user is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.LogFormat)
	}
	return nil
}
