package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartQuerySpan starts a span for one orchestrated query.
// The query text is truncated to keep span attributes bounded.
func StartQuerySpan(ctx context.Context, tracer trace.Tracer, query string) (context.Context, trace.Span) {
	const maxAttrLen = 256
	q := query
	if len(q) > maxAttrLen {
		q = q[:maxAttrLen]
	}

	return tracer.Start(ctx, "query.execute",
		trace.WithAttributes(
			attribute.String("db.statement", q),
			attribute.Bool("cache.hit", false), // Updated in EndQuerySpan
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndQuerySpan ends the span, recording the hit/miss outcome and any error.
func EndQuerySpan(span trace.Span, hit bool, err error) {
	span.SetAttributes(attribute.Bool("cache.hit", hit))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
