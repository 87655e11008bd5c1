// Package log provides the slog-based logger shared by the scene graph, its
// scheduler and the ebiten host.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
// Values can be provided directly or via environment variables:
//   - MORPHIC_LOG_LEVEL=debug|info|warn|error
//   - MORPHIC_LOG_FORMAT=text|json
//   - MORPHIC_LOG_FILE=<path> (enables file logging with rotation)
//   - MORPHIC_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "text" or "json"
	AddSource bool
	File      string

	// Output overrides the console writer (os.Stderr).
	Output io.Writer
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// L returns the process logger, initializing it from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Init configures the process logger and installs it as slog.Default.
func Init(opts Options) {
	lvl := ParseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var handlers []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		handlers = append(handlers, slog.NewJSONHandler(out, hopts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(out, hopts))
	}
	if f := strings.TrimSpace(opts.File); f != "" {
		w := &lj.Logger{Filename: f, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(w, hopts))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers)
	}
	l := slog.New(h).With(slog.String("app", "morphic"))

	mu.Lock()
	logger = l
	mu.Unlock()
	slog.SetDefault(l)
}

// Discard installs a logger that drops everything. Tests use it to keep
// recovered panics out of their output.
func Discard() {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	mu.Lock()
	logger = l
	mu.Unlock()
}

// FromEnv builds Options from MORPHIC_LOG_* environment variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("MORPHIC_LOG_LEVEL", "info"),
		Format:    getenv("MORPHIC_LOG_FORMAT", "text"),
		AddSource: strings.EqualFold(getenv("MORPHIC_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("MORPHIC_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// ParseLevel converts a level name to a slog.Level. Unknown names map to
// info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// fanout sends every record to all handlers.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make(fanout, len(f))
	for i, h := range f {
		res[i] = h.WithAttrs(attrs)
	}
	return res
}

func (f fanout) WithGroup(name string) slog.Handler {
	res := make(fanout, len(f))
	for i, h := range f {
		res[i] = h.WithGroup(name)
	}
	return res
}
