// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
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

// New returns a slog logger backed by charm's handler: human-readable text in
// development, JSON otherwise.
func New(w io.Writer, level string, dev bool) *slog.Logger {
	opts := charmlog.Options{
		Level:           charmlog.Level(ParseLevel(level)),
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}
	if !dev {
		opts.Formatter = charmlog.JSONFormatter
		opts.TimeFormat = time.RFC3339
	}
	return slog.New(charmlog.NewWithOptions(w, opts))
}

// Setup installs the logger as the slog default and returns it.
func Setup(w io.Writer, level string, dev bool) *slog.Logger {
	logger := New(w, level, dev)
	slog.SetDefault(logger)
	return logger
}
