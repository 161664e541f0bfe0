// Package config loads hotelfetch settings from a YAML file and
// HOTELFETCH_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonwraymond/hotelfetch/hotels"
	"github.com/jonwraymond/hotelfetch/observe"
	"github.com/jonwraymond/hotelfetch/secret"
)

// EnvPrefix prefixes every environment override, e.g.
// HOTELFETCH_CACHE_STORE=redis.
const EnvPrefix = "HOTELFETCH"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// ValidStores lists the supported cache backends.
var ValidStores = []string{StoreMemory, StoreFile, StoreRedis}

// Sentinel errors for configuration validation.
var (
	ErrMissingBaseURL = errors.New("config: provider.base_url is required")
	ErrInvalidBaseURL = errors.New("config: provider.base_url is not an absolute URL")
	ErrInvalidStore   = errors.New("config: cache.store must be memory, file or redis")
	ErrMissingDir     = errors.New("config: cache.dir is required for the file store")
	ErrMissingRedis   = errors.New("config: cache.redis.address is required for the redis store")
	ErrInvalidExpiry  = errors.New("config: cache.expiry must be positive")
	ErrInvalidRate    = errors.New("config: resilience.rate_limit.rate must be positive")
)

// Config is the complete client configuration.
type Config struct {
	Provider   ProviderConfig   `mapstructure:"provider"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Transport  TransportConfig  `mapstructure:"transport"`
	Resilience ResilienceConfig `mapstructure:"resilience"`
	Log        LogConfig        `mapstructure:"log"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// ProviderConfig locates the provider API. APIKey may be a literal, a
// ${VAR} reference or a secretref.
type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	APIHost string `mapstructure:"api_host"`
}

// CacheConfig selects and sizes the cache store.
type CacheConfig struct {
	Store    string        `mapstructure:"store"`
	Expiry   time.Duration `mapstructure:"expiry"`
	MaxBytes int           `mapstructure:"max_bytes"`
	Dir      string        `mapstructure:"dir"`
	Redis    RedisConfig   `mapstructure:"redis"`
}

// RedisConfig configures the redis store.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// TransportConfig configures network attempts. An empty proxy disables
// that path.
type TransportConfig struct {
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
	PrefixProxy    string        `mapstructure:"prefix_proxy"`
	QueryProxy     string        `mapstructure:"query_proxy"`
	Coalesce       bool          `mapstructure:"coalesce"`
}

// ResilienceConfig configures the optional provider guards.
type ResilienceConfig struct {
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxFailures  int           `mapstructure:"max_failures"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout"`
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Rate    float64       `mapstructure:"rate"`
	Burst   int           `mapstructure:"burst"`
	Wait    bool          `mapstructure:"wait"`
	MaxWait time.Duration `mapstructure:"max_wait"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// TelemetryConfig configures tracing and metrics exporters.
type TelemetryConfig struct {
	Tracing struct {
		Enabled   bool    `mapstructure:"enabled"`
		Exporter  string  `mapstructure:"exporter"`
		SamplePct float64 `mapstructure:"sample_pct"`
	} `mapstructure:"tracing"`
	Metrics struct {
		Enabled  bool   `mapstructure:"enabled"`
		Exporter string `mapstructure:"exporter"`
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.base_url", hotels.DefaultBaseURL)
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.api_host", hotels.DefaultHost)

	v.SetDefault("cache.store", StoreMemory)
	v.SetDefault("cache.expiry", "24h")
	v.SetDefault("cache.max_bytes", 5<<20)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", "hotelfetch")

	v.SetDefault("transport.attempt_timeout", "15s")
	v.SetDefault("transport.prefix_proxy", hotels.DefaultPrefixProxy)
	v.SetDefault("transport.query_proxy", hotels.DefaultQueryProxy)
	v.SetDefault("transport.coalesce", false)

	v.SetDefault("resilience.breaker.enabled", false)
	v.SetDefault("resilience.breaker.max_failures", 5)
	v.SetDefault("resilience.breaker.reset_timeout", "30s")
	v.SetDefault("resilience.rate_limit.enabled", false)
	v.SetDefault("resilience.rate_limit.rate", 5)
	v.SetDefault("resilience.rate_limit.burst", 5)
	v.SetDefault("resilience.rate_limit.wait", true)
	v.SetDefault("resilience.rate_limit.max_wait", "1s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("telemetry.tracing.enabled", false)
	v.SetDefault("telemetry.tracing.exporter", "none")
	v.SetDefault("telemetry.tracing.sample_pct", 1.0)
	v.SetDefault("telemetry.metrics.enabled", false)
	v.SetDefault("telemetry.metrics.exporter", "none")
}

// Load reads configuration from path, or from hotelfetch.yaml in the
// working directory or ./config when path is empty. A missing default file
// is not an error. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("provider.api_key", EnvPrefix+"_PROVIDER_API_KEY", "RAPIDAPI_KEY")
	_ = v.BindEnv("cache.redis.address", EnvPrefix+"_CACHE_REDIS_ADDRESS", "REDIS_ADDRESS")
	_ = v.BindEnv("cache.redis.password", EnvPrefix+"_CACHE_REDIS_PASSWORD", "REDIS_PASSWORD")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("hotelfetch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if u, err := url.Parse(c.Provider.BaseURL); err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Provider.BaseURL)
	}

	if !slices.Contains(ValidStores, c.Cache.Store) {
		return fmt.Errorf("%w, got %q", ErrInvalidStore, c.Cache.Store)
	}
	if c.Cache.Expiry <= 0 {
		return ErrInvalidExpiry
	}
	if c.Cache.Store == StoreFile && strings.TrimSpace(c.Cache.Dir) == "" {
		return ErrMissingDir
	}
	if c.Cache.Store == StoreRedis && strings.TrimSpace(c.Cache.Redis.Address) == "" {
		return ErrMissingRedis
	}

	if c.Resilience.RateLimit.Enabled && c.Resilience.RateLimit.Rate <= 0 {
		return ErrInvalidRate
	}

	oc := c.ObserveConfig()
	return oc.Validate()
}

// ResolveAPIKey resolves the configured API key reference.
func (c *Config) ResolveAPIKey(ctx context.Context, r *secret.Resolver) (string, error) {
	if c.Provider.APIKey == "" {
		return "", nil
	}
	key, err := r.ResolveValue(ctx, c.Provider.APIKey)
	if err != nil {
		return "", fmt.Errorf("config: resolve provider.api_key: %w", err)
	}
	return key, nil
}

// ObserveConfig maps the logging and telemetry settings onto observe.Config.
func (c *Config) ObserveConfig() observe.Config {
	var oc observe.Config
	oc.ServiceName = "hotelfetch"
	oc.Tracing.Enabled = c.Telemetry.Tracing.Enabled
	oc.Tracing.Exporter = c.Telemetry.Tracing.Exporter
	oc.Tracing.SamplePct = c.Telemetry.Tracing.SamplePct
	oc.Metrics.Enabled = c.Telemetry.Metrics.Enabled
	oc.Metrics.Exporter = c.Telemetry.Metrics.Exporter
	oc.Logging.Enabled = true
	oc.Logging.Level = c.Log.Level
	oc.Logging.Pretty = c.Log.Pretty
	return oc
}
