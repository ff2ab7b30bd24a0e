package slogutil

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestLineHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("Validation complete", "findings", 3, "source", "bot.json")

	line := regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3} INFO  Validation complete findings=3 source=bot\.json\n$`)
	if !line.MatchString(buf.String()) {
		t.Errorf("unexpected line format: %q", buf.String())
	}
}

func TestLineHandler_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger(&buf, slog.LevelInfo), "oracle")

	logger.Warn("Suggestion failed", "status", 429)

	if !strings.Contains(buf.String(), "WARN  oracle: Suggestion failed status=429") {
		t.Errorf("expected component prefix, got: %q", buf.String())
	}
	if strings.Contains(buf.String(), "component=") {
		t.Errorf("component should not repeat as an attribute: %q", buf.String())
	}
}

func TestLineHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).WithGroup("oracle")

	logger.Info("call", "op", "suggest", slog.Group("usage", "tokens", 12))

	for _, want := range []string{"oracle.op=suggest", "oracle.usage.tokens=12"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output, got: %s", want, buf.String())
		}
	}
}

func TestLineHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	for msg, want := range map[string]bool{
		"debug message": false,
		"info message":  false,
		"warn message":  true,
		"error message": true,
	} {
		if got := strings.Contains(output, msg); got != want {
			t.Errorf("contains %q = %v, want %v", msg, got, want)
		}
	}
}

func TestLineHandler_QuotesValues(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo).Info("finding",
		"location", "Main > Start",
		"error", errors.New("bad gateway"),
		"empty", "")

	for _, want := range []string{`location="Main > Start"`, `error="bad gateway"`, `empty=""`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %s, got: %s", want, buf.String())
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warning ", slog.LevelWarn, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"trace", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseLevel(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if fallback := LevelFromString(tt.input); fallback != tt.want {
				t.Errorf("LevelFromString(%q) = %v, want %v", tt.input, fallback, tt.want)
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		expected  slog.Level
	}{
		{0, false, slog.LevelWarn},
		{1, false, slog.LevelInfo},
		{2, false, slog.LevelDebug},
		{0, true, silentLevel},
		{5, true, silentLevel},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity, tt.quiet); got != tt.expected {
			t.Errorf("LevelFromVerbosity(%d, %v) = %v, want %v",
				tt.verbosity, tt.quiet, got, tt.expected)
		}
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) returned nil")
	}
	l := NewLogger(&bytes.Buffer{}, slog.LevelInfo)
	if OrDiscard(l) != l {
		t.Error("OrDiscard should return a non-nil logger unchanged")
	}
}

func TestFanoutHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	logger := slog.New(fanoutHandler{
		NewLineHandler(&buf1, slog.LevelInfo),
		NewLineHandler(&buf2, slog.LevelWarn),
	}).With(ComponentKey, "server")

	logger.Info("info message")
	logger.Warn("warn message")

	if !strings.Contains(buf1.String(), "server: info message") || !strings.Contains(buf1.String(), "server: warn message") {
		t.Errorf("buf1 should contain both messages, got: %s", buf1.String())
	}
	if strings.Contains(buf2.String(), "info message") {
		t.Error("buf2 should not contain info message")
	}
	if !strings.Contains(buf2.String(), "server: warn message") {
		t.Error("buf2 should contain warn message")
	}
}

func TestLoggerFactory_ServerLogger(t *testing.T) {
	root := t.TempDir()
	f := NewLoggerFactory(root, "debug")
	var console bytes.Buffer
	f.stderr = &console

	f.ServerLogger().Debug("listening", "addr", ":8080")
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, ".botlint", "logs", "server.log"))
	if err != nil {
		t.Fatalf("reading server.log: %v", err)
	}
	fileLine := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z DEBUG listening addr=:8080\n$`)
	if !fileLine.Match(data) {
		t.Errorf("server.log = %q, want RFC 3339 line", data)
	}
	if !strings.Contains(console.String(), "listening") {
		t.Errorf("console = %q, want mirrored line", console.String())
	}
}

func TestLoggerFactory_CLILevelWins(t *testing.T) {
	f := NewLoggerFactory("", "debug")
	var console bytes.Buffer
	f.stderr = &console
	f.SetCLILevel(slog.LevelError)

	f.CLILogger().Warn("hidden")
	if console.Len() != 0 {
		t.Errorf("expected warn to be filtered by CLI level, got: %s", console.String())
	}
	if f.Level() != slog.LevelError {
		t.Errorf("Level() = %v, want error", f.Level())
	}
}
