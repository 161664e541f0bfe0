package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store with an optional byte quota.
//
// The quota counts key and value bytes, the way browser local storage does,
// so quota failures can be reproduced without a real host store.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]string
	used     int
	maxBytes int
}

// NewMemoryStore creates a memory store. maxBytes <= 0 disables the quota.
func NewMemoryStore(maxBytes int) *MemoryStore {
	return &MemoryStore{
		values:   make(map[string]string),
		maxBytes: maxBytes,
	}
}

// Get returns the stored value for key.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	return v, ok, nil
}

// Set stores value under key, failing with ErrQuotaExceeded if the write
// would push the store over its quota. A rejected write leaves any previous
// value in place.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used + len(key) + len(value)
	if old, ok := s.values[key]; ok {
		used -= len(key) + len(old)
	}
	if s.maxBytes > 0 && used > s.maxBytes {
		return ErrQuotaExceeded
	}

	s.values[key] = value
	s.used = used
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Bytes returns the number of key and value bytes held.
func (s *MemoryStore) Bytes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

var _ Store = (*MemoryStore)(nil)
