package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog.Logger for the enrollment server.
// GO_ENV=production selects the JSON handler for log aggregation; any other
// environment gets the human-readable text handler. LOG_LEVEL sets the
// minimum level (debug, info, warn, error); unknown or empty means info.
func NewLogger() *slog.Logger {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	level := slog.LevelInfo
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		switch s {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
