package config

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON records in production, text
// elsewhere, filtered at cfg.LogLevel. Every record carries the service name.
func NewLogger(cfg *Config) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Environment == "production" {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("service", "sporthive", "env", cfg.Environment)
}
