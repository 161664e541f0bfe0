package observe

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FetchFunc is the signature of one logical fetch as seen by Middleware.
// It reports how the fetch was satisfied; a non-nil error means failure.
type FetchFunc func(ctx context.Context, meta FetchMeta) (Outcome, error)

// Middleware wraps logical fetches with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap returns a FetchFunc safe for concurrent use.
//   - Context: the span context is propagated to the wrapped function.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Logger returns the logger used for completion lines.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Wrap wraps fn with a span, fetch metrics and a completion log line.
func (m *Middleware) Wrap(fn FetchFunc) FetchFunc {
	return func(ctx context.Context, meta FetchMeta) (Outcome, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		outcome, err := fn(ctx, meta)
		if err != nil {
			outcome = OutcomeFailure
		}
		duration := time.Since(start)

		m.tracer.EndSpan(span, outcome, err)
		m.metrics.RecordFetch(ctx, meta, outcome, duration)

		logger := m.logger.With(
			F("fetch.id", uuid.NewString()),
			F("fetch.namespace", meta.Namespace),
			F("fetch.endpoint", meta.Endpoint),
		)
		fields := []Field{
			F("fetch.outcome", string(outcome)),
			F("duration_ms", float64(duration.Milliseconds())),
		}

		switch {
		case err != nil:
			logger.Error(ctx, "fetch failed", append(fields, F("error", err))...)
		case outcome.Degraded():
			logger.Warn(ctx, "fetch served from fallback", fields...)
		default:
			logger.Info(ctx, "fetch completed", fields...)
		}

		return outcome, err
	}
}

// RecordAttempt records one network attempt made on behalf of namespace.
func (m *Middleware) RecordAttempt(ctx context.Context, namespace, path string, err error) {
	m.metrics.RecordAttempt(ctx, namespace, path, err)
}
