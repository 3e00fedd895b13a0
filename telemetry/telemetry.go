// Package telemetry wraps OpenTelemetry span helpers for the Executor.
// Only the tracer API is used here — exporter wiring belongs to the
// deployment that embeds this engine.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope reported to whatever TracerProvider
// the embedding application has configured globally. With no provider
// configured, otel.Tracer returns a no-op tracer, so these helpers are safe
// to call unconditionally.
const tracerName = "github.com/vivek100/mothBot/engine"

// StartRunSpan starts a span covering one full plan execution.
func StartRunSpan(ctx context.Context, planID string, stepCount int) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "engine.run")
	span.SetAttributes(
		attribute.String("engine.plan_id", planID),
		attribute.Int("engine.step_count", stepCount),
	)
	return ctx, span
}

// StartStepSpan starts a span covering one step's dispatch.
func StartStepSpan(ctx context.Context, stepID, tool string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "engine.step")
	span.SetAttributes(
		attribute.String("engine.step_id", stepID),
		attribute.String("engine.tool", tool),
	)
	return ctx, span
}

// SetSpanAttributes annotates the span already active on ctx.
func SetSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// AddSpanEvent records a named event on the span already active on ctx.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records err on the span active on ctx.
func RecordError(ctx context.Context, err error) {
	trace.SpanFromContext(ctx).RecordError(err)
}
