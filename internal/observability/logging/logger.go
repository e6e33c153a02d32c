// Package logging provides structured logging utilities using the standard library's log/slog package.
// It offers helper functions for creating loggers with consistent configuration and context propagation.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the handler and level of a logger.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string
	// Format is json (default) or text.
	Format string
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// NewLogger creates a structured logger writing to stdout.
func NewLogger(opts Options) *slog.Logger {
	return NewLoggerTo(os.Stdout, opts)
}

// NewLoggerTo creates a structured logger writing to w.
// Source locations are added at debug level.
func NewLoggerTo(w io.Writer, opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	if strings.EqualFold(opts.Format, "text") {
		return slog.New(slog.NewTextHandler(w, handlerOpts))
	}
	return slog.New(slog.NewJSONHandler(w, handlerOpts))
}

// WithFields returns a new logger with additional structured fields.
func WithFields(logger *slog.Logger, fields map[string]interface{}) *slog.Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}

// FromContext retrieves the logger from the context, or returns the default logger if not found.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
