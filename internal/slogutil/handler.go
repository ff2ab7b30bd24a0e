package slogutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	consoleTimeFormat = "15:04:05.000"
	fileTimeFormat    = time.RFC3339
)

// LineHandler writes one line per record:
//
//	15:04:05.000 WARN  oracle: Suggestion failed status=429 op=suggest
//
// The component prefix comes from a ComponentKey attribute. Levels are
// colored only when the renderer detects a terminal.
type LineHandler struct {
	w          io.Writer
	mu         *sync.Mutex
	level      slog.Leveler
	timeFormat string
	styles     map[slog.Level]lipgloss.Style

	component string
	prefix    string // group path, "a.b."
	attrs     []byte // preformatted " key=value" pairs
}

// NewLineHandler creates a console handler.
func NewLineHandler(w io.Writer, level slog.Leveler) *LineHandler {
	r := lipgloss.NewRenderer(w)
	return &LineHandler{
		w:          w,
		mu:         &sync.Mutex{},
		level:      level,
		timeFormat: consoleTimeFormat,
		styles: map[slog.Level]lipgloss.Style{
			slog.LevelDebug: r.NewStyle().Foreground(lipgloss.Color("241")),
			slog.LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("39")),
			slog.LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("220")),
			slog.LevelError: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
	}
}

func newFileHandler(w io.Writer, level slog.Leveler) *LineHandler {
	return &LineHandler{
		w:          w,
		mu:         &sync.Mutex{},
		level:      level,
		timeFormat: fileTimeFormat,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}
	if h.timeFormat == fileTimeFormat {
		t = t.UTC()
	}
	buf.WriteString(t.Format(h.timeFormat))
	buf.WriteByte(' ')
	buf.WriteString(h.levelLabel(r.Level))
	buf.WriteByte(' ')

	component := h.component
	var attrs bytes.Buffer
	attrs.Write(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == ComponentKey && h.prefix == "" {
			component = a.Value.String()
			return true
		}
		appendAttr(&attrs, h.prefix, a)
		return true
	})

	if component != "" {
		buf.WriteString(component)
		buf.WriteString(": ")
	}
	buf.WriteString(r.Message)
	buf.Write(attrs.Bytes())
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs returns a handler that writes attrs on every record.
func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	var buf bytes.Buffer
	buf.Write(h.attrs)
	for _, a := range attrs {
		if a.Key == ComponentKey && h.prefix == "" {
			h2.component = a.Value.String()
			continue
		}
		appendAttr(&buf, h.prefix, a)
	}
	h2.attrs = buf.Bytes()
	return &h2
}

// WithGroup returns a handler that prefixes later keys with name.
func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func (h *LineHandler) levelLabel(level slog.Level) string {
	var base slog.Level
	switch {
	case level < slog.LevelInfo:
		base = slog.LevelDebug
	case level < slog.LevelWarn:
		base = slog.LevelInfo
	case level < slog.LevelError:
		base = slog.LevelWarn
	default:
		base = slog.LevelError
	}
	label := base.String()
	pad := strings.Repeat(" ", 5-len(label))
	if style, ok := h.styles[base]; ok {
		return style.Render(label) + pad
	}
	return label + pad
}

func appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(buf, inner, ga)
		}
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(v.String())
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	default:
		if err, ok := v.Any().(error); ok {
			return quoteIfNeeded(err.Error())
		}
		return quoteIfNeeded(fmt.Sprint(v.Any()))
	}
}

// quoteIfNeeded quotes strings that would break key=value parsing.
// Finding locations ("Flow > Page") always need it.
func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"\n\t") {
		return strconv.Quote(s)
	}
	return s
}

// fanoutHandler sends each record to every enabled handler.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
