package config

import (
	"log/slog"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "development" {
		t.Errorf("Expected development, got %s", cfg.Environment)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", cfg.LogLevel)
	}
	if cfg.PackFormat != 12 {
		t.Errorf("Expected pack format 12, got %d", cfg.PackFormat)
	}
	if cfg.RedisKey != "mcdsl:builds" {
		t.Errorf("Expected default redis key, got %s", cfg.RedisKey)
	}
	if cfg.QueueKey != "mcdsl:requests" {
		t.Errorf("Expected default queue key, got %s", cfg.QueueKey)
	}
	if cfg.WorkerID != "" {
		t.Errorf("Expected no worker id, got %s", cfg.WorkerID)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MCDSL_ENVIRONMENT", "production")
	t.Setenv("MCDSL_LOG_LEVEL", "DEBUG")
	t.Setenv("MCDSL_PACK_FORMAT", "15")
	t.Setenv("MCDSL_REDIS_URL", "redis://cache:6379/2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("Expected production, got %s", cfg.Environment)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", cfg.LogLevel)
	}
	if cfg.PackFormat != 15 {
		t.Errorf("Expected pack format 15, got %d", cfg.PackFormat)
	}
	if cfg.RedisURL != "redis://cache:6379/2" {
		t.Errorf("Unexpected redis url %s", cfg.RedisURL)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not a number", value: "twelve"},
		{name: "zero", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MCDSL_PACK_FORMAT", tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "parse env:") {
				t.Fatalf("expected parse env prefix, got %v", err)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	cfg := &Config{}
	cfg.SetLogLevel("error")
	if cfg.LogLevel != slog.LevelError || cfg.LogLevelName != "error" {
		t.Errorf("Unexpected level %v (%s)", cfg.LogLevel, cfg.LogLevelName)
	}
}
