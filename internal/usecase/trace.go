package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/riskibarqy/fantasy-hockey/internal/usecase")

// startSpan opens a child span only when the caller is already traced, so
// cron ticks and bare CLI calls without a parent stay span-free.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// failSpan marks span as errored. It returns err unchanged.
func failSpan(span trace.Span, err error) error {
	if err != nil && span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func leagueAttr(id int64) attribute.KeyValue { return attribute.Int64("fantasy.league_id", id) }
func teamAttr(id int64) attribute.KeyValue   { return attribute.Int64("fantasy.team_id", id) }
