// Package logging provides the structured logger every long-lived task in
// kubetui writes through. Adapted from the teacher's utils/logging
// ServiceHandler: log lines follow
//
//	<ISO8601_time> <component> [<LEVEL>] <source>: <message> key=value ...
//
// This module drops the teacher's Fluent-Bit-oriented "user=" extraction
// (no analogue here) but keeps the handler shape, the context-carried
// logger helpers, and the stdout+file dual-writer.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Config mirrors the environment surface in spec §6: RUST_LOG selects the
// level, LOG_PATH selects the log file directory.
type Config struct {
	Level   slog.Level
	LogDir  string
	LogName string
}

// ConfigFromEnv builds a Config from RUST_LOG / LOG_PATH, falling back to
// info level and stdout-only logging.
func ConfigFromEnv(component string) Config {
	return Config{
		Level:   ParseLevel(os.Getenv("RUST_LOG")),
		LogDir:  os.Getenv("LOG_PATH"),
		LogName: component,
	}
}

// ParseLevel converts a level string (as RUST_LOG would supply) to an
// slog.Level. Unrecognised/empty input defaults to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ServiceHandler is a slog.Handler formatting records as
// "<ISO8601> <component> [<LEVEL>] <source>: <message> key=value ...".
type ServiceHandler struct {
	component string
	level     slog.Level
	writer    io.Writer
	mu        *sync.Mutex
	attrs     []slog.Attr
	groups    []string
}

func NewServiceHandler(component string, level slog.Level, writer io.Writer) *ServiceHandler {
	return &ServiceHandler{component: component, level: level, writer: writer, mu: &sync.Mutex{}}
}

func (h *ServiceHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ServiceHandler) Handle(_ context.Context, r slog.Record) error {
	timeStr := r.Time.Format("2006-01-02T15:04:05.000-07:00")
	source := callerSource(r.PC)

	var parts []string
	for _, a := range h.resolveAttrs() {
		parts = append(parts, formatAttr(a, nil))
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, formatAttr(a, nil))
		return true
	})

	msg := r.Message
	if len(parts) > 0 {
		msg = msg + " " + strings.Join(parts, " ")
	}

	line := fmt.Sprintf("%s %s [%s] %s: %s\n", timeStr, h.component, r.Level, source, msg)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write([]byte(line))
	return err
}

func (h *ServiceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &ServiceHandler{component: h.component, level: h.level, writer: h.writer, mu: h.mu, attrs: newAttrs, groups: h.groups}
}

func (h *ServiceHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &ServiceHandler{component: h.component, level: h.level, writer: h.writer, mu: h.mu, attrs: h.attrs, groups: newGroups}
}

// Init builds the default logger for the process: stdout, plus a timestamped
// file under cfg.LogDir when set.
func Init(component string, cfg Config) *slog.Logger {
	writers := []io.Writer{os.Stdout}

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory %s: %v\n", cfg.LogDir, err)
		} else {
			name := cfg.LogName
			if name == "" {
				name = component
			}
			ts := strings.ReplaceAll(time.Now().Format("2006-01-02T15-04-05"), ":", "-")
			path := filepath.Join(cfg.LogDir, fmt.Sprintf("%s_%d_%s.log", ts, os.Getpid(), name))
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
			} else {
				writers = append(writers, f)
			}
		}
	}

	logger := slog.New(NewServiceHandler(component, cfg.Level, io.MultiWriter(writers...)))
	slog.SetDefault(logger)
	return logger
}

type loggerKey struct{}

// WithLogger attaches a logger to ctx so nested workers inherit it.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the ctx-carried logger, or slog.Default() if none was
// attached.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

func callerSource(pc uintptr) string {
	if pc == 0 {
		return "unknown"
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	if f.Function == "" {
		return "unknown"
	}
	parts := strings.Split(f.Function, "/")
	last := parts[len(parts)-1]
	if idx := strings.Index(last, "."); idx >= 0 {
		return last[:idx]
	}
	return last
}

func (h *ServiceHandler) resolveAttrs() []slog.Attr {
	if len(h.groups) == 0 {
		return h.attrs
	}
	prefix := strings.Join(h.groups, ".") + "."
	out := make([]slog.Attr, len(h.attrs))
	for i, a := range h.attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}
	return out
}

func formatAttr(a slog.Attr, groups []string) string {
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return fmt.Sprintf("%s=%s", key, a.Value.String())
}
