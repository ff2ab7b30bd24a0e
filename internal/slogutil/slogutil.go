// Package slogutil builds the loggers used by the CLI and the API server.
package slogutil

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ComponentKey names the subsystem that emitted a record. LineHandler
// prints it as a prefix rather than as a key=value pair.
const ComponentKey = "component"

// silentLevel sits above every standard level.
const silentLevel = slog.Level(100)

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// NewLogger returns a console logger: short timestamps, styled levels.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewLineHandler(w, level))
}

// NewFileLogger opens path for appending and returns a logger with full
// RFC 3339 timestamps and no styling. The caller closes the file.
func NewFileLogger(path string, level slog.Level) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(newFileHandler(f, level)), f, nil
}

// OrDiscard returns l, or a logger that drops everything when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// WithComponent tags l's records with a subsystem name.
func WithComponent(l *slog.Logger, name string) *slog.Logger {
	return OrDiscard(l).With(ComponentKey, name)
}

// ParseLevel maps debug, info, warn/warning and error (any case) to a level.
func ParseLevel(s string) (slog.Level, bool) {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	return level, ok
}

// LevelFromString is ParseLevel with info as the fallback.
func LevelFromString(s string) slog.Level {
	if level, ok := ParseLevel(s); ok {
		return level
	}
	return slog.LevelInfo
}

// LevelFromVerbosity maps -q and repeated -v to a level. Without flags the
// CLI only shows warnings.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	switch {
	case quiet:
		return silentLevel
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
