package workerpresentation

import (
	"context"
	"time"

	domoutbox "github.com/felipeshurrab/Harmonia/internal/domain/outbox"
	"github.com/felipeshurrab/Harmonia/internal/observability"
	"github.com/felipeshurrab/Harmonia/internal/observability/logctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// WithEventContext injects an event-scoped logger for handlers running on the
// bus dispatcher.
// Dynamic fields only: event_id (generated), event name, aggregate id when the
// event is keyed, trace_id/span_id when the context carries a valid span.
func WithEventContext(ctx context.Context, base observability.Logger, e domoutbox.Event) context.Context {
	if base == nil {
		base = observability.NopLogger()
	}

	fields := make([]observability.Field, 0, 5)
	fields = append(fields,
		observability.F("event_id", uuid.NewString()),
		observability.F("event", e.EventName()),
	)
	if key := domoutbox.KeyOf(e); key != "" {
		fields = append(fields, observability.F("aggregate_id", key))
	}

	sc := trace.SpanContextFromContext(ctx)
	if sc.TraceID().IsValid() {
		fields = append(fields, observability.F("trace_id", sc.TraceID().String()))
	}
	if sc.SpanID().IsValid() {
		fields = append(fields, observability.F("span_id", sc.SpanID().String()))
	}

	return logctx.With(ctx, base.With(fields...))
}

// Middleware wraps h so every invocation gets an event-scoped logger and one
// event_handled line with the outcome.
func Middleware(base observability.Logger, component string, h domoutbox.Handler) domoutbox.Handler {
	if base == nil {
		base = observability.NopLogger()
	}
	base = base.With(observability.F("component", component))

	return func(ctx context.Context, e domoutbox.Event) error {
		start := time.Now()
		ctx = WithEventContext(ctx, base, e)

		err := h(ctx, e)

		logger := logctx.FromOr(ctx, base)
		latency := observability.F("latency_ms", time.Since(start).Milliseconds())
		if err != nil {
			logger.Warn("event_handled", latency,
				observability.F("outcome", "error"),
				observability.F("error", err.Error()),
			)
			return err
		}
		logger.Info("event_handled", latency, observability.F("outcome", "ok"))
		return nil
	}
}

// Subscribe registers h, wrapped in Middleware, for every named event.
func Subscribe(sub domoutbox.Subscriber, base observability.Logger, component string, h domoutbox.Handler, eventNames ...string) {
	wrapped := Middleware(base, component, h)
	for _, name := range eventNames {
		sub.Subscribe(name, wrapped)
	}
}
