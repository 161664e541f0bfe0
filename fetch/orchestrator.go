package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/hotelfetch/cache"
	"github.com/jonwraymond/hotelfetch/observe"
	"github.com/jonwraymond/hotelfetch/transport"
)

// Config configures an Orchestrator. Everything the orchestrator needs is
// passed here; nothing is looked up from the environment.
type Config struct {
	// Namespace prefixes every cache key, e.g. "booking_search".
	Namespace string

	// BaseURL is the provider root that endpoint ids are appended to.
	BaseURL string

	// Headers are sent with every network attempt.
	Headers http.Header

	// ExpiryWindow is how long a cache entry counts as fresh.
	// Default: 24 hours
	ExpiryWindow time.Duration

	Layer    *cache.Layer
	Resolver Attempter

	// Validate checks provider responses and, unless TrustEmptyCacheHit is
	// set, cached payloads before they are served as fresh.
	Validate transport.Validator

	// TrustEmptyCacheHit serves any fresh cache entry without running
	// Validate against it.
	TrustEmptyCacheHit bool

	// Fallback supplies a synthetic payload when nothing else can. Nil
	// means the transport error is returned to the caller.
	Fallback Fallback

	// Coalesce shares one in-flight fetch between concurrent callers of the
	// same key. The shared fetch keeps the first caller's context values
	// but not its cancellation.
	Coalesce bool

	Middleware *observe.Middleware
	Logger     observe.Logger
}

// Orchestrator serves requests for one namespace.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Context: ctx bounds the network attempts; cache access is best-effort.
// - Errors: only transport and structural failures are returned, and only
//   when no cached entry and no Fallback can serve the request.
type Orchestrator struct {
	namespace    string
	baseURL      string
	headers      http.Header
	expiryWindow time.Duration
	layer        *cache.Layer
	resolver     Attempter
	validate     transport.Validator
	trustEmpty   bool
	fallback     Fallback
	coalesce     bool
	group        singleflight.Group
	mw           *observe.Middleware
	logger       observe.Logger
}

// New creates an Orchestrator.
func New(config Config) (*Orchestrator, error) {
	if strings.TrimSpace(config.Namespace) == "" {
		return nil, ErrMissingNamespace
	}
	if strings.TrimSpace(config.BaseURL) == "" {
		return nil, ErrMissingBaseURL
	}
	if config.Layer == nil {
		return nil, ErrNilLayer
	}
	if config.Resolver == nil {
		return nil, ErrNilResolver
	}
	if config.ExpiryWindow <= 0 {
		config.ExpiryWindow = cache.DefaultExpiryWindow
	}
	if config.Middleware == nil {
		config.Middleware = observe.NopMiddleware()
	}
	if config.Logger == nil {
		config.Logger = config.Middleware.Logger()
	}

	return &Orchestrator{
		namespace:    config.Namespace,
		baseURL:      strings.TrimRight(config.BaseURL, "/"),
		headers:      config.Headers.Clone(),
		expiryWindow: config.ExpiryWindow,
		layer:        config.Layer,
		resolver:     config.Resolver,
		validate:     config.Validate,
		trustEmpty:   config.TrustEmptyCacheHit,
		fallback:     config.Fallback,
		coalesce:     config.Coalesce,
		mw:           config.Middleware,
		logger:       config.Logger,
	}, nil
}

// Namespace returns the cache namespace served by o.
func (o *Orchestrator) Namespace() string {
	return o.namespace
}

// Request serves spec, preferring fresh cache, then the provider, then
// stale cache, then the Fallback.
func (o *Orchestrator) Request(ctx context.Context, spec RequestSpec) (Result, error) {
	if strings.TrimSpace(spec.Endpoint) == "" {
		return Result{}, ErrMissingEndpoint
	}

	spec.Params = spec.Params.Scrub()
	key, err := cache.Key(o.namespace, spec.Endpoint, spec.Params.Map())
	if err != nil {
		return Result{}, fmt.Errorf("fetch %s/%s: %w", o.namespace, spec.Endpoint, err)
	}

	if !o.coalesce {
		return o.observed(ctx, key, spec)
	}

	// The shared fetch outlives any one caller's cancellation; each caller
	// stops waiting on its own ctx. Attempt timeouts still bound it.
	ch := o.group.DoChan(key, func() (any, error) {
		return o.observed(context.WithoutCancel(ctx), key, spec)
	})
	select {
	case r := <-ch:
		if r.Shared {
			o.logger.Debug(ctx, "fetch shared with in-flight request", observe.F("cache.key", key))
		}
		result, _ := r.Val.(Result)
		return result, r.Err
	case <-ctx.Done():
		return Result{Key: key}, fmt.Errorf("fetch %s/%s: %w", o.namespace, spec.Endpoint, ctx.Err())
	}
}

func (o *Orchestrator) observed(ctx context.Context, key string, spec RequestSpec) (Result, error) {
	var result Result
	run := o.mw.Wrap(func(ctx context.Context, _ observe.FetchMeta) (observe.Outcome, error) {
		var err error
		result, err = o.fetch(ctx, key, spec)
		return result.Provenance.outcome(), err
	})

	meta := observe.FetchMeta{Namespace: o.namespace, Endpoint: spec.Endpoint, Key: key}
	if _, err := run(ctx, meta); err != nil {
		return Result{Key: key}, err
	}
	return result, nil
}

func (o *Orchestrator) fetch(ctx context.Context, key string, spec RequestSpec) (Result, error) {
	if cached, fresh, ok := o.layer.Lookup(ctx, key, o.expiryWindow); ok && fresh {
		if o.trusted(cached) {
			return Result{Provenance: Fresh, Payload: cached, Key: key}, nil
		}
		o.logger.Debug(ctx, "fresh cache entry not trusted, refetching", observe.F("cache.key", key))
	}

	body, err := o.resolver.Attempt(ctx, o.url(spec), o.headers, o.validate)
	if err == nil {
		payload := json.RawMessage(body)
		o.layer.Put(ctx, key, payload)
		return Result{Provenance: Fresh, Payload: payload, Key: key}, nil
	}

	if cached, ok := o.layer.Get(ctx, key); ok {
		return Result{Provenance: Stale, Payload: cached, Key: key, Cause: err}, nil
	}

	if o.fallback != nil {
		payload, ferr := o.fallback(spec)
		if ferr == nil {
			return Result{Provenance: Synthetic, Payload: payload, Key: key, Cause: err}, nil
		}
		err = errors.Join(err, fmt.Errorf("fallback: %w", ferr))
	}

	return Result{Key: key}, fmt.Errorf("fetch %s/%s: %w", o.namespace, spec.Endpoint, err)
}

func (o *Orchestrator) trusted(cached json.RawMessage) bool {
	if o.trustEmpty || o.validate == nil {
		return true
	}
	return o.validate(cached) == nil
}

func (o *Orchestrator) url(spec RequestSpec) string {
	u := o.baseURL + "/" + strings.TrimLeft(spec.Endpoint, "/")
	if q := spec.Params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}
