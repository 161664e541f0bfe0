package hotels

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jonwraymond/hotelfetch/cache"
	"github.com/jonwraymond/hotelfetch/fetch"
	"github.com/jonwraymond/hotelfetch/observe"
	"github.com/jonwraymond/hotelfetch/resilience"
	"github.com/jonwraymond/hotelfetch/transport"
)

// ErrNilLayer is returned when Options carries no cache layer.
var ErrNilLayer = errors.New("hotels: cache layer is nil")

// Options holds the dependencies shared by all services.
type Options struct {
	// BaseURL is the provider root. Default: DefaultBaseURL
	BaseURL string

	// APIKey and APIHost are sent as provider headers.
	APIKey  string
	APIHost string

	// ExpiryWindow is how long cached responses count as fresh.
	// Default: 24 hours
	ExpiryWindow time.Duration

	Layer *cache.Layer

	Client         *http.Client
	AttemptTimeout time.Duration
	Guard          *resilience.Executor

	// PrefixProxy is the fallback proxy of the direct-first services;
	// QueryProxy is the first path of SearchService. Nil disables either.
	PrefixProxy transport.ProxyWrapper
	QueryProxy  transport.ProxyWrapper

	// Coalesce shares in-flight fetches between concurrent identical calls.
	Coalesce bool

	Middleware *observe.Middleware
	Logger     observe.Logger
}

// DefaultOptions returns Options pointing at the public provider and
// proxies, backed by an unbounded in-memory cache.
func DefaultOptions(apiKey string) Options {
	layer, _ := cache.NewLayer(cache.NewMemoryStore(0))
	return Options{
		BaseURL:     DefaultBaseURL,
		APIKey:      apiKey,
		APIHost:     DefaultHost,
		Layer:       layer,
		PrefixProxy: transport.PrefixProxy(DefaultPrefixProxy),
		QueryProxy:  transport.QueryProxy(DefaultQueryProxy),
	}
}

func (o Options) headers() http.Header {
	h := http.Header{}
	if o.APIKey != "" {
		h.Set(HeaderAPIKey, o.APIKey)
	}
	h.Set(HeaderAPIHost, or(o.APIHost, DefaultHost))
	return h
}

// profile is the per-service part of an orchestrator configuration.
type profile struct {
	namespace  string
	order      transport.Order
	proxy      transport.ProxyWrapper
	validate   transport.Validator
	trustEmpty bool
	fallback   fetch.Fallback
}

func (o Options) orchestrator(p profile) (*fetch.Orchestrator, error) {
	if o.Layer == nil {
		return nil, ErrNilLayer
	}
	if o.Middleware == nil {
		o.Middleware = observe.NopMiddleware()
	}
	if o.Logger == nil {
		o.Logger = o.Middleware.Logger()
	}
	logger := o.Logger.With(observe.F("fetch.namespace", p.namespace))
	mw := o.Middleware

	resolver := transport.NewResolver(transport.Config{
		Client:         o.Client,
		Order:          p.order,
		Proxy:          p.proxy,
		AttemptTimeout: o.AttemptTimeout,
		Guard:          o.Guard,
		Logger:         logger,
		OnAttempt: func(ctx context.Context, path transport.Path, err error) {
			mw.RecordAttempt(ctx, p.namespace, string(path), err)
		},
	})

	return fetch.New(fetch.Config{
		Namespace:          p.namespace,
		BaseURL:            or(o.BaseURL, DefaultBaseURL),
		Headers:            o.headers(),
		ExpiryWindow:       o.ExpiryWindow,
		Layer:              o.Layer,
		Resolver:           resolver,
		Validate:           p.validate,
		TrustEmptyCacheHit: p.trustEmpty,
		Fallback:           p.fallback,
		Coalesce:           o.Coalesce,
		Middleware:         mw,
		Logger:             logger,
	})
}
