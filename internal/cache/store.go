// Package cache memoizes remote responses for a fixed freshness window so
// repeated report requests with the same shape skip the network.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is the freshness window: entries older than this are treated
// as absent on read.
const DefaultTTL = 300 * time.Second

// Store is a typed TTL cache. Expiry is checked on read; there is no
// background sweep (the cleanup janitor is disabled) and no capacity
// bound, which is fine for the handful of distinct request shapes a
// report run exercises.
type Store[T any] struct {
	c *gocache.Cache
}

// NewStore creates a store with the given freshness window. A zero or
// negative ttl falls back to DefaultTTL.
func NewStore[T any](ttl time.Duration) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store[T]{c: gocache.New(ttl, 0)}
}

// Get returns the cached value for the key if present and fresh.
func (s *Store[T]) Get(key Key) (T, bool) {
	var zero T
	v, found := s.c.Get(key.String())
	if !found {
		return zero, false
	}
	value, ok := v.(T)
	if !ok {
		return zero, false
	}
	return value, true
}

// Set stores the value under the key, overwriting any prior entry and
// restarting its freshness window.
func (s *Store[T]) Set(key Key, value T) {
	s.c.Set(key.String(), value, gocache.DefaultExpiration)
}

// Size returns the number of entries, including any not yet swept expired
// ones.
func (s *Store[T]) Size() int {
	return s.c.ItemCount()
}
