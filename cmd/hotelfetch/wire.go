package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/hotelfetch/cache"
	"github.com/jonwraymond/hotelfetch/config"
	"github.com/jonwraymond/hotelfetch/health"
	"github.com/jonwraymond/hotelfetch/hotels"
	"github.com/jonwraymond/hotelfetch/observe"
	"github.com/jonwraymond/hotelfetch/resilience"
	"github.com/jonwraymond/hotelfetch/secret"
	"github.com/jonwraymond/hotelfetch/transport"
)

// app holds everything a command needs, built once from configuration.
type app struct {
	search   *hotels.SearchService
	details  *hotels.DetailsService
	listings *hotels.ListingService
	health   *health.Aggregator
	logger   observe.Logger

	closers []func(context.Context) error
}

// newApp builds the store, cache layer, guards, telemetry and services.
// logOut receives log and stdout-exporter output.
func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	oc := cfg.ObserveConfig()
	oc.Output = logOut
	obs, err := observe.NewObserver(ctx, oc)
	if err != nil {
		return nil, fmt.Errorf("observer: %w", err)
	}
	a := &app{logger: obs.Logger()}
	a.closers = append(a.closers, obs.Shutdown)

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("middleware: %w", err)
	}

	store, err := a.newStore(cfg.Cache)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	layer, err := cache.NewLayer(store, cache.WithLogger(a.logger))
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	apiKey, err := cfg.ResolveAPIKey(ctx, secret.DefaultResolver())
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	if apiKey == "" {
		a.logger.Warn(ctx, "no provider api key configured; requests will likely be rejected")
	}

	guard, breaker := newGuard(cfg.Resilience)

	opts := hotels.Options{
		BaseURL:        cfg.Provider.BaseURL,
		APIKey:         apiKey,
		APIHost:        cfg.Provider.APIHost,
		ExpiryWindow:   cfg.Cache.Expiry,
		Layer:          layer,
		Client:         &http.Client{},
		AttemptTimeout: cfg.Transport.AttemptTimeout,
		Guard:          guard,
		Coalesce:       cfg.Transport.Coalesce,
		Middleware:     mw,
		Logger:         a.logger,
	}
	if cfg.Transport.PrefixProxy != "" {
		opts.PrefixProxy = transport.PrefixProxy(cfg.Transport.PrefixProxy)
	}
	if cfg.Transport.QueryProxy != "" {
		opts.QueryProxy = transport.QueryProxy(cfg.Transport.QueryProxy)
	}

	if err := a.newServices(opts); err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	a.health = health.NewAggregator(health.AggregatorConfig{})
	a.health.Register(health.NewStoreChecker("cache:"+cfg.Cache.Store, store))
	if breaker != nil {
		a.health.Register(health.NewBreakerChecker(breaker))
	}
	return a, nil
}

func (a *app) newStore(cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Store {
	case config.StoreFile:
		return cache.NewFileStore(cfg.Dir)
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := cache.NewRedisStore(client, cfg.Redis.Prefix)
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		return store, nil
	default:
		return cache.NewMemoryStore(cfg.MaxBytes), nil
	}
}

func (a *app) newServices(opts hotels.Options) error {
	var err error
	if a.search, err = hotels.NewSearchService(opts); err != nil {
		return err
	}
	if a.details, err = hotels.NewDetailsService(opts); err != nil {
		return err
	}
	a.listings, err = hotels.NewListingService(opts, hotels.SampleListings)
	return err
}

// newGuard returns nil guards when neither breaker nor limiter is enabled.
func newGuard(cfg config.ResilienceConfig) (*resilience.Executor, *resilience.CircuitBreaker) {
	var (
		opts    []resilience.ExecutorOption
		breaker *resilience.CircuitBreaker
	)
	if cfg.RateLimit.Enabled {
		opts = append(opts, resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:        cfg.RateLimit.Rate,
			Burst:       cfg.RateLimit.Burst,
			WaitOnLimit: cfg.RateLimit.Wait,
			MaxWait:     cfg.RateLimit.MaxWait,
		})))
	}
	if cfg.Breaker.Enabled {
		breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:         "provider",
			MaxFailures:  cfg.Breaker.MaxFailures,
			ResetTimeout: cfg.Breaker.ResetTimeout,
		})
		opts = append(opts, resilience.WithCircuitBreaker(breaker))
	}
	if len(opts) == 0 {
		return nil, nil
	}
	return resilience.NewExecutor(opts...), breaker
}

// close releases resources in reverse order of acquisition.
func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
