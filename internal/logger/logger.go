// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"

	"github.com/mfigueira/aventuria/internal/config"
)

// Setup builds the global logger: JSON output in production, text
// elsewhere. The returned logger is also installed as slog's default.
func Setup(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithSession scopes a logger to one session.
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	return logger.With("session_id", sessionID)
}
