// Package observability groups the structured logging, Prometheus metrics and
// OpenTelemetry tracing used by the digest pipeline.
//
// Subpackages:
//   - logging: slog construction and context propagation
//   - metrics: Prometheus collectors and recorders for pipeline stages
//   - tracing: package tracer and SDK provider setup
package observability
