package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/statlink/internal/domain/source"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("github.com/riskibarqy/statlink/internal/usecase")

// startUsecaseSpan opens a child span only under a traced caller, so CLI
// runs without a root span record nothing.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func batchSpanAttrs(feed source.Name, league string, season, records int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("statlink.source", string(feed)),
		attribute.String("statlink.league", strings.TrimSpace(league)),
		attribute.Int("statlink.season", season),
		attribute.Int("statlink.records", records),
	}
}
