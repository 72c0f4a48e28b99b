// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the shared configuration for the API, the worker, and the
// console client.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// OracleProvider selects the LLM backend: "anthropic" or "openai".
	OracleProvider string `env:"ORACLE_PROVIDER" envDefault:"anthropic"`
	OracleModel    string `env:"ORACLE_MODEL"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`

	// OracleTimeoutSeconds bounds a single Oracle call.
	OracleTimeoutSeconds int `env:"ORACLE_TIMEOUT_SECONDS" envDefault:"60"`

	// HistoryLimit is the log window included in turn prompts.
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"20"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that the selected Oracle provider is usable.
func (c *Config) Validate() error {
	switch c.OracleProvider {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown oracle provider %q", c.OracleProvider)
	}
	return nil
}

// SlogLevel maps the configured level string onto slog's levels.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
