// Package otel holds the span helpers and attribute keys wordfinder traces with.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by every span wordfinder starts
const (
	AttrSessionID   = attribute.Key("wordfinder.session.id")
	AttrLanguage    = attribute.Key("wordfinder.language")
	AttrWordLength  = attribute.Key("wordfinder.word_length")
	AttrWordSource  = attribute.Key("wordfinder.source")
	AttrResultCount = attribute.Key("result.count")
	AttrConflict    = attribute.Key("wordfinder.conflict")
)

// StartSpan starts a span on tracer. A nil tracer yields the span already in ctx,
// which is a no-op span when tracing is off.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError marks span as failed. The status message stays generic so
// connection strings never land in it; the error itself is kept as an event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}

// RecordResult sets the number of words an operation produced
func RecordResult(span trace.Span, count int) {
	if span != nil {
		span.SetAttributes(AttrResultCount.Int(count))
	}
}
