package app

import (
	"fmt"
	"io"
	"log/slog"
)

// parseLevel maps a configured level name onto slog. An empty name is info.
func parseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	switch name {
	case "debug", "info", "warn", "error":
	default:
		return 0, fmt.Errorf("invalid log level '%s': must be 'debug', 'info', 'warn', or 'error'", name)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level '%s': %w", name, err)
	}
	return level, nil
}

// newLogger builds the application's own logger from a validated Config.
// The global slog default is left alone so that apps stay isolated.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
