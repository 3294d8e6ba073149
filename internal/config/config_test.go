package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mmynk/batchpricer/internal/calculator"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("addr: expected :8080, got %q", cfg.Addr)
	}
	if cfg.DBPath != "./data/recipes.db" {
		t.Errorf("db path: expected ./data/recipes.db, got %q", cfg.DBPath)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log level: expected info, got %v", cfg.LogLevel)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("token ttl: expected 24h, got %v", cfg.TokenTTL)
	}
	if cfg.IDStrategy != "uuid" {
		t.Errorf("id strategy: expected uuid, got %q", cfg.IDStrategy)
	}
	if cfg.DefaultMarkup != calculator.DefaultStrategy {
		t.Errorf("default markup: expected %v, got %v", calculator.DefaultStrategy, cfg.DefaultMarkup)
	}
	if cfg.AuthEnabled() {
		t.Error("expected auth disabled without JWT_SECRET")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"SERVER_ADDR":    "127.0.0.1:9090",
		"LOG_LEVEL":      "DEBUG",
		"JWT_SECRET":     "s3cret",
		"TOKEN_TTL":      "90m",
		"ID_STRATEGY":    "Snowflake",
		"SNOWFLAKE_NODE": "7",
		"DEFAULT_MARKUP": "premium",
	}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Addr != "127.0.0.1:9090" {
		t.Errorf("addr: got %q", cfg.Addr)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level: expected debug, got %v", cfg.LogLevel)
	}
	if !cfg.AuthEnabled() {
		t.Error("expected auth enabled")
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Errorf("token ttl: expected 90m, got %v", cfg.TokenTTL)
	}
	if cfg.IDStrategy != "snowflake" || cfg.SnowflakeNode != 7 {
		t.Errorf("ids: got %q node %d", cfg.IDStrategy, cfg.SnowflakeNode)
	}
	if cfg.DefaultMarkup.Multiplier != calculator.MarkupPremium {
		t.Errorf("default markup: expected %v, got %v", calculator.MarkupPremium, cfg.DefaultMarkup.Multiplier)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"log level", "LOG_LEVEL", "loud"},
		{"token ttl", "TOKEN_TTL", "tomorrow"},
		{"negative ttl", "TOKEN_TTL", "-1h"},
		{"id strategy", "ID_STRATEGY", "ulid"},
		{"snowflake node", "SNOWFLAKE_NODE", "x"},
		{"snowflake range", "SNOWFLAKE_NODE", "1024"},
		{"markup", "DEFAULT_MARKUP", "bargain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(envOf(map[string]string{tt.key: tt.val})); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
