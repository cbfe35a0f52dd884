// Package cache holds small in-process caches with expiry.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Expiring keeps values until their TTL elapses on the injected clock. A
// non-positive TTL keeps the value until it is deleted.
type Expiring[K comparable, V any] struct {
	mu    sync.Mutex
	clock clockwork.Clock
	items map[K]entry[V]
}

// NewExpiring creates an empty cache reading time from clock. A nil clock
// uses wall time.
func NewExpiring[K comparable, V any](clock clockwork.Clock) *Expiring[K, V] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Expiring[K, V]{clock: clock, items: make(map[K]entry[V])}
}

// Get returns the live value under key
func (c *Expiring[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && !c.clock.Now().Before(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for ttl
func (c *Expiring[K, V]) Set(key K, value V, ttl time.Duration) {
	if c == nil {
		return
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.clock.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = entry[V]{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Delete drops key
func (c *Expiring[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len counts stored entries, including expired ones not yet evicted
func (c *Expiring[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
