// Package logging builds the slog logger used across the record viewer.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"loov.dev/recordview/config"
)

// New returns a logger writing to stderr.
func New(cfg config.Log) *slog.Logger {
	return NewTo(os.Stderr, cfg)
}

// NewTo returns a logger writing to w, as text or JSON.
func NewTo(w io.Writer, cfg config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(cfg.Level)}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Level parses a level name, defaulting to info.
func Level(name string) slog.Level {
	switch strings.ToLower(name) {
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
