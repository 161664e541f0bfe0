package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Outcome labels how a logical fetch was satisfied.
type Outcome string

const (
	OutcomeFresh     Outcome = "fresh"
	OutcomeStale     Outcome = "stale"
	OutcomeSynthetic Outcome = "synthetic"
	OutcomeFailure   Outcome = "failure"
)

// Degraded reports whether the outcome was served from a fallback.
func (o Outcome) Degraded() bool {
	return o == OutcomeStale || o == OutcomeSynthetic
}

// FetchMeta identifies one logical fetch for telemetry purposes.
type FetchMeta struct {
	Namespace string // Cache namespace of the collaborator (required)
	Endpoint  string // Provider endpoint identifier (required)
	Key       string // Derived cache key; logged and traced, never a metric label
}

// SpanName returns the deterministic span name for this fetch.
// Format: hotelfetch.<namespace>.<endpoint>
func (m FetchMeta) SpanName() string {
	if m.Namespace == "" {
		return "hotelfetch." + m.Endpoint
	}
	return "hotelfetch." + m.Namespace + "." + m.Endpoint
}

func (m FetchMeta) attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("fetch.namespace", m.Namespace),
		attribute.String("fetch.endpoint", m.Endpoint),
	}
}

// Tracer wraps OpenTelemetry tracing with fetch-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a logical fetch.
	StartSpan(ctx context.Context, meta FetchMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the outcome and any error.
	EndSpan(span trace.Span, outcome Outcome, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta FetchMeta) (context.Context, trace.Span) {
	attrs := meta.attributes()
	if meta.Key != "" {
		attrs = append(attrs, attribute.String("cache.key", meta.Key))
	}
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, outcome Outcome, err error) {
	span.SetAttributes(attribute.String("fetch.outcome", string(outcome)))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta FetchMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ Outcome, _ error) {
	span.End()
}
