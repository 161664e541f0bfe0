package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
// Keys embed serialized parameters, so this is generous.
const MaxKeyLength = 4096

// Sentinel errors for cache operations.
var (
	ErrNilStore      = errors.New("cache: store is nil")
	ErrInvalidKey    = errors.New("cache: key is invalid")
	ErrKeyTooLong    = errors.New("cache: key exceeds max length")
	ErrQuotaExceeded = errors.New("cache: store quota exceeded")
	ErrCorruptEntry  = errors.New("cache: stored entry is corrupt")
)

// Store is a persistent string key-value store without expiry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: Get returns ("", false, nil) on miss; errors mean the backend failed.
// - Overwrite: Set replaces any existing value; the last writer wins.
type Store interface {
	// Get returns the stored value for key.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. Quota failures wrap ErrQuotaExceeded.
	Set(ctx context.Context, key, value string) error
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
