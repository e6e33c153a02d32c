package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected slog.Level
	}{
		{name: "default log level (info)", level: "", expected: slog.LevelInfo},
		{name: "debug log level", level: "debug", expected: slog.LevelDebug},
		{name: "upper case", level: "DEBUG", expected: slog.LevelDebug},
		{name: "warn", level: "warn", expected: slog.LevelWarn},
		{name: "warning alias", level: "warning", expected: slog.LevelWarn},
		{name: "error", level: "error", expected: slog.LevelError},
		{name: "invalid log level defaults to info", level: "invalid", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.level))
		})
	}
}

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, Options{Level: "info"})

	logger.Info("test message", slog.String("key", "value"))
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNewLoggerTo_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, Options{Level: "debug", Format: "text"})

	logger.Debug("debug message")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, `msg="debug message"`)
	assert.Contains(t, out, "source=")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := WithFields(NewLoggerTo(&buf, Options{}), map[string]interface{}{"run_id": "abc"})

	logger.Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["run_id"])
}

func TestContextLogger(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, Options{})
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}
