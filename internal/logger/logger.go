package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	gray   = "\033[90m"
)

type PrettyHandler struct {
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
	group string
	mu    *sync.Mutex
}

func NewPrettyHandler(w io.Writer, level slog.Leveler) *PrettyHandler {
	return &PrettyHandler{w: w, level: level, mu: &sync.Mutex{}}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	timestamp := r.Time.Format("15:04:05")

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor = red
		levelText = "ERR"
	case r.Level >= slog.LevelWarn:
		levelColor = yellow
		levelText = "WRN"
	case r.Level >= slog.LevelInfo:
		levelColor = green
		levelText = "INF"
	default:
		levelColor = gray
		levelText = "DBG"
	}

	fmt.Fprintf(h.w, "%s%s%s %s%-3s%s %s",
		gray, timestamp, reset,
		levelColor, levelText, reset,
		r.Message,
	)

	for _, a := range h.attrs {
		h.writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(h.qualify(a))
		return true
	})

	fmt.Fprintln(h.w)
	return nil
}

func (h *PrettyHandler) writeAttr(a slog.Attr) {
	fmt.Fprintf(h.w, " %s%s%s=%v", cyan, a.Key, reset, a.Value)
}

func (h *PrettyHandler) qualify(a slog.Attr) slog.Attr {
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = slices.Clip(h.attrs)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, h.qualify(a))
	}
	return &h2
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	if h2.group != "" {
		name = h2.group + "." + name
	}
	h2.group = name
	return &h2
}

// ParseLevel maps LOG_LEVEL values to slog levels. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds the handler selected by format ("json" or pretty).
func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return NewPrettyHandler(w, level)
}

// New configures the process logger from LOG_FORMAT and LOG_LEVEL on first
// use and returns it. Logs go to stderr so converted text on stdout stays
// clean.
func New() *slog.Logger {
	once.Do(func() {
		handler := NewHandler(os.Stderr, os.Getenv("LOG_FORMAT"), ParseLevel(os.Getenv("LOG_LEVEL")))
		logger = slog.New(handler)
		slog.SetDefault(logger)
	})
	return logger
}

func Info(msg string, args ...any) {
	New().Info(msg, args...)
}

func Error(msg string, args ...any) {
	New().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	New().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	New().Debug(msg, args...)
}
