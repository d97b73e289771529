// Package log configures the process-wide slog default.
package log

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Config controls handler selection and verbosity.
type Config struct {
	Level  slog.Level
	Format string // "text", "json", or "dev"
}

// FromEnv builds a Config from LOG_LEVEL and LOG_FORMAT. Unset or unknown
// values fall back to info/text.
func FromEnv() Config {
	cfg := Config{Level: slog.LevelInfo, Format: "text"}

	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		cfg.Level = slog.LevelDebug
	case "warn":
		cfg.Level = slog.LevelWarn
	case "error":
		cfg.Level = slog.LevelError
	}

	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "json":
		cfg.Format = "json"
	case "dev":
		cfg.Format = "dev"
	}

	return cfg
}

// Setup installs the default logger and returns it.
func Setup(cfg Config) *slog.Logger {
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})
	case "dev":
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      cfg.Level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
