package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonwraymond/hotelfetch/observe"
)

// DefaultExpiryWindow is how long a stored entry counts as fresh.
const DefaultExpiryWindow = 24 * time.Hour

// Entry is the stored wire shape of a cached provider response.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // epoch milliseconds
}

// StoredAt returns the time the entry was written.
func (e Entry) StoredAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Layer stores timestamped payloads in a Store and judges their freshness.
//
// Contract:
// - Concurrency: safe for concurrent use if the Store is.
// - Errors: no method returns an error; store and decode failures are
//   logged and reported as "no cache".
type Layer struct {
	store  Store
	now    func() time.Time
	logger observe.Logger
}

// LayerOption configures a Layer.
type LayerOption func(*Layer)

// WithClock sets the wall clock used for timestamps and freshness checks.
func WithClock(now func() time.Time) LayerOption {
	return func(l *Layer) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger for swallowed cache failures.
func WithLogger(logger observe.Logger) LayerOption {
	return func(l *Layer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLayer creates a cache layer over store.
func NewLayer(store Store, opts ...LayerOption) (*Layer, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	l := &Layer{
		store:  store,
		now:    time.Now,
		logger: observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Store returns the underlying store.
func (l *Layer) Store() Store {
	return l.store
}

// IsValid reports whether an entry exists for key and is younger than
// window. The comparison is strict: an entry exactly window old is expired.
func (l *Layer) IsValid(ctx context.Context, key string, window time.Duration) bool {
	entry, ok := l.read(ctx, key)
	if !ok {
		return false
	}
	return l.now().Sub(entry.StoredAt()) < window
}

// Get returns the cached payload for key regardless of its age.
func (l *Layer) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	entry, ok := l.read(ctx, key)
	if !ok || isNull(entry.Data) {
		return nil, false
	}
	return entry.Data, true
}

// Lookup returns the cached payload for key and whether it is younger than
// window, reading the store once. ok is false when nothing usable is
// cached.
func (l *Layer) Lookup(ctx context.Context, key string, window time.Duration) (payload json.RawMessage, fresh, ok bool) {
	entry, ok := l.read(ctx, key)
	if !ok || isNull(entry.Data) {
		return nil, false, false
	}
	return entry.Data, l.now().Sub(entry.StoredAt()) < window, true
}

// Put stores payload under key stamped with the current time. Failures are
// logged and never returned.
func (l *Layer) Put(ctx context.Context, key string, payload json.RawMessage) {
	if err := ValidateKey(key); err != nil {
		l.logger.Warn(ctx, "cache write skipped", observe.F("cache.key", key), observe.F("error", err))
		return
	}

	raw, err := json.Marshal(Entry{Data: payload, Timestamp: l.now().UnixMilli()})
	if err != nil {
		l.logger.Warn(ctx, "cache write skipped", observe.F("cache.key", key), observe.F("error", err))
		return
	}

	if err := l.store.Set(ctx, key, string(raw)); err != nil {
		l.logger.Warn(ctx, "cache write failed", observe.F("cache.key", key), observe.F("error", err))
		return
	}
	l.logger.Debug(ctx, "cache entry stored", observe.F("cache.key", key), observe.F("bytes", len(raw)))
}

func (l *Layer) read(ctx context.Context, key string) (Entry, bool) {
	// Put never stores keys that fail validation.
	if ValidateKey(key) != nil {
		return Entry{}, false
	}
	raw, ok, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.Warn(ctx, "cache read failed", observe.F("cache.key", key), observe.F("error", err))
		return Entry{}, false
	}
	if !ok {
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		l.logger.Warn(ctx, "cache entry unreadable", observe.F("cache.key", key),
			observe.F("error", fmt.Errorf("%w: %v", ErrCorruptEntry, err)))
		return Entry{}, false
	}
	return entry, true
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}
