package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "brainnode"

// StartCompileSpan starts a span for compiling one definition.
func StartCompileSpan(ctx context.Context, id, buildID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "compile",
		trace.WithAttributes(
			attribute.String("agent.id", id),
			attribute.String("build.id", buildID),
		),
	)
}

// StartRenderSpan starts a span for rendering a compiled document.
func StartRenderSpan(ctx context.Context, id, format string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "render",
		trace.WithAttributes(
			attribute.String("agent.id", id),
			attribute.String("render.format", format),
		),
	)
}

// StartPublishSpan starts a span for publishing documents to the store.
func StartPublishSpan(ctx context.Context, buildID string, count int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "publish",
		trace.WithAttributes(
			attribute.String("build.id", buildID),
			attribute.Int("documents", count),
		),
	)
}

// Fail records err on span and marks it as failed.
func Fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
