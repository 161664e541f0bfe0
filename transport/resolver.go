package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonwraymond/hotelfetch/observe"
	"github.com/jonwraymond/hotelfetch/resilience"
)

// MaxBodyBytes bounds the size of a provider response.
const MaxBodyBytes = 16 << 20

// AttemptFunc observes the result of one network attempt.
type AttemptFunc func(ctx context.Context, path Path, err error)

// Config configures a Resolver.
type Config struct {
	// Client sends requests. Default: a client without its own timeout.
	Client *http.Client

	// Order selects which path is tried first.
	Order Order

	// Proxy wraps origin URLs for the proxy path. Nil disables the proxy,
	// leaving a single direct attempt.
	Proxy ProxyWrapper

	// AttemptTimeout bounds each network attempt.
	// Default: 15 seconds
	AttemptTimeout time.Duration

	// Guard optionally wraps every attempt, typically with a rate limiter
	// and circuit breaker.
	Guard *resilience.Executor

	// OnAttempt is called after every network attempt.
	OnAttempt AttemptFunc

	// Logger receives per-attempt debug and warn lines.
	Logger observe.Logger
}

// Resolver delivers a request over at most two transport paths.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Context: cancellation aborts the in-flight attempt and suppresses the
//   alternate attempt.
// - Errors: failures are *TransportError or *StructuralError values; when
//   both paths fail they are joined in attempt order.
type Resolver struct {
	client    *http.Client
	order     Order
	proxy     ProxyWrapper
	timeout   *resilience.Timeout
	guard     *resilience.Executor
	onAttempt AttemptFunc
	logger    observe.Logger
}

// NewResolver creates a Resolver, applying defaults.
func NewResolver(config Config) *Resolver {
	if config.Client == nil {
		config.Client = &http.Client{}
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	return &Resolver{
		client:    config.Client,
		order:     config.Order,
		proxy:     config.Proxy,
		timeout:   resilience.NewTimeout(resilience.TimeoutConfig{Timeout: config.AttemptTimeout}),
		guard:     config.Guard,
		onAttempt: config.OnAttempt,
		logger:    config.Logger,
	}
}

// Paths returns the attempt sequence this resolver follows.
func (r *Resolver) Paths() []Path {
	return r.order.paths(r.proxy != nil)
}

// Attempt fetches rawURL with headers and returns the validated body.
// validate may be nil, in which case any JSON body is accepted.
func (r *Resolver) Attempt(ctx context.Context, rawURL string, headers http.Header, validate Validator) ([]byte, error) {
	var errs []error
	for i, path := range r.Paths() {
		if i > 0 && ctx.Err() != nil {
			break
		}

		body, err := r.attemptPath(ctx, path, rawURL, headers, validate)
		if r.onAttempt != nil {
			r.onAttempt(ctx, path, err)
		}
		if err == nil {
			r.logger.Debug(ctx, "transport attempt succeeded", observe.F("transport.path", string(path)))
			return body, nil
		}

		r.logger.Warn(ctx, "transport attempt failed",
			observe.F("transport.path", string(path)),
			observe.F("error", err),
		)
		errs = append(errs, err)

		// A refused call means the provider is known bad; another path
		// reaches the same provider.
		if resilience.IsRejection(err) {
			break
		}
	}
	return nil, errors.Join(errs...)
}

func (r *Resolver) attemptPath(ctx context.Context, path Path, rawURL string, headers http.Header, validate Validator) ([]byte, error) {
	target := rawURL
	if path == PathProxy {
		target = r.proxy(rawURL)
	}

	var body []byte
	send := func(ctx context.Context) error {
		return r.timeout.Execute(ctx, func(ctx context.Context) error {
			b, err := r.send(ctx, path, target, headers)
			if err != nil {
				return err
			}
			body = b
			return nil
		})
	}

	var err error
	if r.guard != nil {
		err = r.guard.Execute(ctx, send)
	} else {
		err = send(ctx)
	}
	if err != nil {
		if !IsTransport(err) && !IsStructural(err) {
			err = &TransportError{Path: path, URL: target, Err: err}
		}
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &StructuralError{Path: path, Err: ErrInvalidJSON}
	}
	if validate != nil {
		if err := validate(body); err != nil {
			return nil, &StructuralError{Path: path, Err: err}
		}
	}
	return body, nil
}

func (r *Resolver) send(ctx context.Context, path Path, target string, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Path: path, URL: target, Err: err}
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &TransportError{Path: path, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodyBytes))
		return nil, &TransportError{
			Path:       path,
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, &TransportError{Path: path, URL: target, StatusCode: 0, Err: err}
	}
	if len(body) > MaxBodyBytes {
		return nil, &StructuralError{Path: path, Err: ErrBodyTooLarge}
	}
	return body, nil
}
