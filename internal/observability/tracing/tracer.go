package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("daily-brief")

// GetTracer returns the package tracer. It resolves through the global
// provider, so spans start flowing once Setup has run.
func GetTracer() trace.Tracer {
	return tracer
}

// Setup installs an SDK tracer provider as the global provider and returns its
// shutdown function. Extra options (exporters, samplers) are passed through.
func Setup(opts ...sdktrace.TracerProviderOption) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
