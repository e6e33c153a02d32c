// Package tracing provides OpenTelemetry tracing integration.
//
// Every pipeline stage opens a span from the package tracer
// (digest.run, digest.fetch, digest.select, digest.enrich, digest.render,
// digest.send). Without an installed provider the spans are no-ops.
//
// Example usage:
//
//	shutdown := tracing.Setup()
//	defer func() { _ = shutdown(context.Background()) }()
//
//	ctx, span := tracing.GetTracer().Start(ctx, "digest.fetch")
//	defer span.End()
package tracing
