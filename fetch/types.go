package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonwraymond/hotelfetch/observe"
	"github.com/jonwraymond/hotelfetch/transport"
)

// Sentinel errors for orchestrator construction and requests.
var (
	ErrMissingNamespace = errors.New("fetch: namespace is required")
	ErrMissingBaseURL   = errors.New("fetch: base URL is required")
	ErrNilLayer         = errors.New("fetch: cache layer is nil")
	ErrNilResolver      = errors.New("fetch: resolver is nil")
	ErrMissingEndpoint  = errors.New("fetch: endpoint is required")
)

// RequestSpec is one logical provider request.
type RequestSpec struct {
	Endpoint string
	Params   transport.Params
}

// Provenance tells the caller how a Result was satisfied.
type Provenance int

const (
	// Fresh payloads come from a valid cache entry or a successful fetch.
	Fresh Provenance = iota
	// Stale payloads come from an expired cache entry after the transport failed.
	Stale
	// Synthetic payloads come from the Fallback after transport and cache failed.
	Synthetic
)

// String returns the lowercase name of the provenance.
func (p Provenance) String() string {
	switch p {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Synthetic:
		return "synthetic"
	default:
		return "unknown"
	}
}

func (p Provenance) outcome() observe.Outcome {
	switch p {
	case Stale:
		return observe.OutcomeStale
	case Synthetic:
		return observe.OutcomeSynthetic
	default:
		return observe.OutcomeFresh
	}
}

// Result is a successfully served request.
type Result struct {
	Provenance Provenance
	Payload    json.RawMessage
	Key        string

	// Cause is the transport failure behind a Stale or Synthetic result.
	Cause error
}

// Degraded reports whether the payload was served from a fallback.
func (r Result) Degraded() bool {
	return r.Provenance != Fresh
}

// Decode unmarshals the payload into v.
func (r Result) Decode(v any) error {
	return json.Unmarshal(r.Payload, v)
}

// Fallback produces a synthetic payload when neither the provider nor the
// cache can serve a request.
type Fallback func(spec RequestSpec) (json.RawMessage, error)

// Attempter delivers one request over the configured transport paths.
// *transport.Resolver implements it.
type Attempter interface {
	Attempt(ctx context.Context, rawURL string, headers http.Header, validate transport.Validator) ([]byte, error)
}

var _ Attempter = (*transport.Resolver)(nil)
