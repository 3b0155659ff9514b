package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"TRACE", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"  info  ", slog.LevelInfo},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestServiceHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	handler := NewServiceHandler("kubetui", slog.LevelInfo, &buf)
	logger := slog.New(handler)

	logger.Info("context switched", "context", "prod")

	line := buf.String()
	if !strings.Contains(line, "kubetui") {
		t.Errorf("expected component name in line: %s", line)
	}
	if !strings.Contains(line, "[INFO]") {
		t.Errorf("expected level in line: %s", line)
	}
	if !strings.Contains(line, "context switched") {
		t.Errorf("expected message in line: %s", line)
	}
	if !strings.Contains(line, "context=prod") {
		t.Errorf("expected attr in line: %s", line)
	}
}

func TestServiceHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := NewServiceHandler("kubetui", slog.LevelWarn, &buf)
	logger := slog.New(handler)

	logger.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info line to be dropped at warn level, got: %s", buf.String())
	}

	logger.Warn("should appear")
	if buf.Len() == 0 {
		t.Errorf("expected warn line to be written")
	}
}

func TestFromContextDefaultsWhenUnset(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("expected non-nil default logger")
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewServiceHandler("kubetui", slog.LevelInfo, &buf))
	ctx := WithLogger(context.Background(), logger)

	if FromContext(ctx) != logger {
		t.Fatal("expected FromContext to return the attached logger")
	}
}
