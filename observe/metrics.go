package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records fetch and transport metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordFetch records one logical fetch with its outcome and duration.
	RecordFetch(ctx context.Context, meta FetchMeta, outcome Outcome, duration time.Duration)

	// RecordAttempt records one network attempt on the given transport path.
	RecordAttempt(ctx context.Context, namespace, path string, err error)
}

type metricsImpl struct {
	fetchCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	attemptCount metric.Int64Counter
}

// NewMetrics creates Metrics backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	fetchCount, err := meter.Int64Counter(
		"hotelfetch.fetch.total",
		metric.WithDescription("Logical fetches by outcome"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"hotelfetch.fetch.duration_ms",
		metric.WithDescription("Logical fetch duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	attemptCount, err := meter.Int64Counter(
		"hotelfetch.transport.attempts",
		metric.WithDescription("Network attempts by transport path and result"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		fetchCount:   fetchCount,
		durationHist: durationHist,
		attemptCount: attemptCount,
	}, nil
}

func (m *metricsImpl) RecordFetch(ctx context.Context, meta FetchMeta, outcome Outcome, duration time.Duration) {
	attrs := append(meta.attributes(), attribute.String("fetch.outcome", string(outcome)))
	opt := metric.WithAttributes(attrs...)

	m.fetchCount.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordAttempt(ctx context.Context, namespace, path string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.attemptCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("fetch.namespace", namespace),
		attribute.String("transport.path", path),
		attribute.String("transport.result", result),
	))
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(context.Context, FetchMeta, Outcome, time.Duration) {}
func (noopMetrics) RecordAttempt(context.Context, string, string, error)          {}
