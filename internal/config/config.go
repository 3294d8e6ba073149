// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/batchpricer/internal/calculator"
	"github.com/mmynk/batchpricer/internal/ids"
)

// Config holds the server settings.
type Config struct {
	Addr     string
	DBPath   string
	LogLevel slog.Level

	// JWTSecret enables operator authentication when non-empty.
	JWTSecret string
	TokenTTL  time.Duration

	IDStrategy    string
	SnowflakeNode int64

	DefaultMarkup calculator.Strategy
}

// AuthEnabled reports whether recipe procedures require a token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Load reads a .env file from the working directory, if present, and then the
// environment. Unset variables take their defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := &Config{
		Addr:       get("SERVER_ADDR", ":8080"),
		DBPath:     get("DB_PATH", "./data/recipes.db"),
		JWTSecret:  get("JWT_SECRET", ""),
		IDStrategy: strings.ToLower(get("ID_STRATEGY", ids.StrategyUUID)),
	}

	level, err := ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL: must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	switch cfg.IDStrategy {
	case ids.StrategyUUID, ids.StrategySnowflake:
	default:
		return nil, fmt.Errorf("invalid ID_STRATEGY %q: want %s or %s", cfg.IDStrategy, ids.StrategyUUID, ids.StrategySnowflake)
	}

	node, err := strconv.ParseInt(get("SNOWFLAKE_NODE", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SNOWFLAKE_NODE: %w", err)
	}
	if node < 0 || node > 1023 {
		return nil, fmt.Errorf("invalid SNOWFLAKE_NODE: %d out of range 0..1023", node)
	}
	cfg.SnowflakeNode = node

	markup := get("DEFAULT_MARKUP", calculator.DefaultStrategy.Name)
	strategy, ok := calculator.StrategyByName(markup)
	if !ok {
		return nil, fmt.Errorf("invalid DEFAULT_MARKUP %q", markup)
	}
	cfg.DefaultMarkup = strategy

	return cfg, nil
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
}
