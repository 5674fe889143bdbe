// Package config holds the server configuration: defaults overlaid by an
// optional YAML file, flag overrides applied by the CLI layer.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the serving process configuration.
type Config struct {
	// LoadTimeout bounds a single model load.
	LoadTimeout time.Duration `yaml:"load_timeout"`
	// SSEAddr, when set, serves the tool surface over SSE instead of stdio.
	SSEAddr string `yaml:"sse_addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LoadTimeout: 60 * time.Second,
		LogLevel:    "info",
	}
}

// LoadFile reads a YAML config file over the defaults. A missing file is not
// an error; explicit garbage is.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = Default().LoadTimeout
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog level, defaulting to
// Info for anything unrecognized.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
