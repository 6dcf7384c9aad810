// Package cache provides time-expiring in-memory stores and the batched
// artist resolver built on top of them.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Store is a concurrency-safe key/value map whose entries are valid while
// now - storedAt < ttl. Expiry is purely time based; writers replace whole
// entries.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// New creates a store. A nil clock uses time.Now.
func New[V any](ttl time.Duration, now func() time.Time) *Store[V] {
	if now == nil {
		now = time.Now
	}
	return &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the value stored under key if it is still fresh.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.now().Sub(e.storedAt) >= s.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key stamped with the current time.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, storedAt: s.now()}
	s.mu.Unlock()
}

// Delete removes key.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Purge drops expired entries and returns how many were removed.
func (s *Store[V]) Purge() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if now.Sub(e.storedAt) >= s.ttl {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len counts stored entries, fresh or not.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
