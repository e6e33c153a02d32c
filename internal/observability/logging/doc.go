// Package logging provides structured logging utilities with context propagation.
//
// Key features:
//   - JSON and text output formats
//   - Configurable log levels
//   - Context-aware logging: the pipeline stores its run-scoped logger in the
//     context so readers and summarizers log with the same run_id
//
// Example usage:
//
//	logger := logging.NewLogger(logging.Options{Level: "info"})
//	ctx = logging.WithLogger(ctx, logger.With(slog.String("run_id", id)))
//	logging.FromContext(ctx).Info("source read completed")
package logging
