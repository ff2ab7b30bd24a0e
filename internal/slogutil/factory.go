package slogutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LoggerFactory creates loggers for the CLI and the API server.
// Precedence for the level: CLI flags > config > info.
type LoggerFactory struct {
	root        string
	configLevel string
	cliLevel    slog.Level
	cliSet      bool
	stderr      io.Writer
	closers     []io.Closer
}

// NewLoggerFactory creates a new logger factory rooted at a project directory.
// configLevel is the logging.level value from config ("" for none).
func NewLoggerFactory(root, configLevel string) *LoggerFactory {
	return &LoggerFactory{
		root:        root,
		configLevel: configLevel,
		stderr:      os.Stderr,
	}
}

// SetCLILevel records a level chosen by -v/-q flags.
func (f *LoggerFactory) SetCLILevel(level slog.Level) {
	f.cliLevel = level
	f.cliSet = true
}

// CLILogger returns a logger writing to stderr.
func (f *LoggerFactory) CLILogger() *slog.Logger {
	return NewLogger(f.stderr, f.effectiveLevel())
}

// ServerLogger returns a logger for `botlint serve`.
// Writes to <root>/.botlint/logs/server.log and mirrors to stderr.
// Falls back to stderr alone when the log file cannot be opened.
func (f *LoggerFactory) ServerLogger() *slog.Logger {
	level := f.effectiveLevel()
	console := NewLineHandler(f.stderr, level)
	if f.root == "" {
		return slog.New(console)
	}

	dir := filepath.Join(f.root, ".botlint", "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return slog.New(console)
	}
	file, err := os.OpenFile(filepath.Join(dir, "server.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return slog.New(console)
	}
	f.closers = append(f.closers, file)
	return slog.New(fanoutHandler{console, newFileHandler(file, level)})
}

// Level returns the level new loggers are created with.
func (f *LoggerFactory) Level() slog.Level {
	return f.effectiveLevel()
}

func (f *LoggerFactory) effectiveLevel() slog.Level {
	if f.cliSet {
		return f.cliLevel
	}
	if f.configLevel != "" {
		return LevelFromString(f.configLevel)
	}
	return slog.LevelInfo
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
