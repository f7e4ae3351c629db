// Package memo provides a small expiring LRU wrapper for memoizing pure
// computations. The astro engine itself never caches; callers that want
// re-render speed own one of these explicitly.
package memo

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache memoizes values by key with an LRU bound and a TTL.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// New builds a cache holding at most size entries, each for at most ttl.
// A ttl of 0 disables expiry; entries then live until evicted.
func New[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{lru: expirable.NewLRU[K, V](size, nil, ttl)}
}

// Do returns the cached value for key, computing and storing it on a miss.
// Failed computations are never cached, so transient errors retry.
func (c *Cache[K, V]) Do(key K, compute func() (V, error)) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	c.lru.Add(key, v)
	return v, nil
}

// Get looks a key up without computing.
func (c *Cache[K, V]) Get(key K) (V, bool) { return c.lru.Get(key) }

// Add stores a value directly.
func (c *Cache[K, V]) Add(key K, v V) { c.lru.Add(key, v) }

// Remove drops one key.
func (c *Cache[K, V]) Remove(key K) { c.lru.Remove(key) }

// Purge drops everything.
func (c *Cache[K, V]) Purge() { c.lru.Purge() }

// Len reports the number of live entries.
func (c *Cache[K, V]) Len() int { return c.lru.Len() }
