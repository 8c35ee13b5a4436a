package server

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies Grain spans in whatever tracer provider the host
// application installs. Without a provider these calls are no-ops.
const tracerName = "grain"

// traceEvent wraps one event dispatch in a span.
func traceEvent(ctx context.Context, sessionID, eventType string, nodeID uint64, dispatch func() error) error {
	tracer := otel.Tracer(tracerName)

	_, span := tracer.Start(ctx, "grain.event",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("grain.session_id", sessionID),
			attribute.String("grain.event_type", eventType),
			attribute.Int64("grain.node_id", int64(nodeID)),
		),
	)
	defer span.End()

	err := dispatch()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
