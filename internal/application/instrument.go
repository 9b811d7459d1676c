package application

import (
	"context"
	"time"

	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/felipeshurrab/Harmonia/internal/observability"
	"github.com/felipeshurrab/Harmonia/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const SpanPrefix = "UC."

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Instrumentation carries the RED metrics, tracer and base logger shared by
// the use cases of one service.
type Instrumentation struct {
	tracer       observability.Tracer
	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	metrics      observability.Metrics
}

func NewInstrumentation(tel observability.Observability, service string) Instrumentation {
	tracer, logger, metrics := observability.Resolve(tel)
	return Instrumentation{
		tracer:       tracer,
		log:          logger.With(observability.F("service", service)),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		metrics:      metrics,
	}
}

func (in Instrumentation) Metrics() observability.Metrics { return in.metrics }

// Run tracks a single use case execution.
type Run struct {
	in      Instrumentation
	useCase string
	span    trace.Span
	start   time.Time
	status  string
	fields  []observability.Field
	Logger  observability.Logger
}

// Begin opens the use case span and binds a request-scoped logger to ctx.
func (in Instrumentation) Begin(ctx context.Context, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, *Run) {
	attrs = append(attrs, attribute.String("use_case", useCase))
	ctx, span := in.tracer.Start(ctx, SpanPrefix+spanName, attrs...)

	logger := logctx.FromOr(ctx, in.log).With(observability.F("use_case", useCase))
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logger = logger.With(
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	ctx = logctx.With(ctx, logger)

	return ctx, &Run{
		in:      in,
		useCase: useCase,
		span:    span,
		start:   time.Now(),
		status:  "OK",
		Logger:  logger,
	}
}

// Status overrides the status text recorded on the span and the log line.
func (r *Run) Status(status string) { r.status = status }

func (r *Run) Field(k string, v any) { r.fields = append(r.fields, observability.F(k, v)) }

func (r *Run) Event(name string, attrs ...attribute.KeyValue) {
	if r.span != nil {
		r.span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

func (r *Run) SetAttributes(attrs ...attribute.KeyValue) {
	if r.span != nil {
		r.span.SetAttributes(attrs...)
	}
}

// End records metrics, span status and the use_case_done log line.
func (r *Run) End(err error) {
	lat := time.Since(r.start).Seconds()
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
		kind := fault.KindOf(err)
		if kind != fault.KindInfrastructure {
			outcome = OutcomeRejected
		}
		if r.status == "OK" {
			r.status = string(kind)
		}
	}

	if r.span != nil {
		if err != nil {
			r.span.RecordError(err)
			r.span.SetStatus(codes.Error, r.status)
		} else {
			r.span.SetStatus(codes.Ok, r.status)
		}
		r.span.End()
	}

	r.in.reqCounter.Add(1,
		observability.L("use_case", r.useCase),
		observability.L("outcome", outcome),
	)
	r.in.durHistogram.Observe(lat,
		observability.L("use_case", r.useCase),
	)

	fields := append([]observability.Field{
		observability.F("outcome", outcome),
		observability.F("status", r.status),
		observability.F("latency_seconds", lat),
	}, r.fields...)
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}
	if outcome == OutcomeError {
		r.Logger.Error("use_case_done", fields...)
		return
	}
	r.Logger.Info("use_case_done", fields...)
}
