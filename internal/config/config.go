package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment  string `env:"MCDSL_ENVIRONMENT" envDefault:"development"`
	LogLevelName string `env:"MCDSL_LOG_LEVEL"   envDefault:"info"`
	RedisURL     string `env:"MCDSL_REDIS_URL"   envDefault:"redis://localhost:6379"`
	RedisKey     string `env:"MCDSL_REDIS_KEY"   envDefault:"mcdsl:builds"`
	QueueKey     string `env:"MCDSL_QUEUE_KEY"   envDefault:"mcdsl:requests"`
	WorkerID     string `env:"MCDSL_WORKER_ID"`
	PackFormat   int    `env:"MCDSL_PACK_FORMAT" envDefault:"12"`

	LogLevel slog.Level `env:"-"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PackFormat <= 0 {
		return nil, fmt.Errorf("parse env: MCDSL_PACK_FORMAT must be positive, got %d", cfg.PackFormat)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	return cfg, nil
}

// SetLogLevel overrides the configured level, e.g. from a command line flag.
func (c *Config) SetLogLevel(level string) {
	c.LogLevelName = level
	c.LogLevel = parseLogLevel(level)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
