// Package cache memoizes filter evaluations keyed on dataset identity and
// the canonical filter selection.
package cache

import (
	"sync"
	"time"
)

// Observer is notified of cache hits and misses
type Observer interface {
	CacheHit(layer string)
	CacheMiss(layer string)
}

type entry[T any] struct {
	val T
	exp time.Time
}

// Cache is an in-process TTL cache bounded to maxEntries.
// When full, expired entries are dropped first, then the oldest.
type Cache[T any] struct {
	mu         sync.RWMutex
	m          map[string]entry[T]
	ttl        time.Duration
	maxEntries int
	obs        Observer
	now        func() time.Time
}

// New creates a cache; maxEntries <= 0 means unbounded
func New[T any](ttl time.Duration, maxEntries int, obs Observer) *Cache[T] {
	return &Cache[T]{
		m:          make(map[string]entry[T]),
		ttl:        ttl,
		maxEntries: maxEntries,
		obs:        obs,
		now:        time.Now,
	}
}

// Get returns the cached value for key if present and not expired
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.exp) {
		if c.obs != nil {
			c.obs.CacheMiss("memory")
		}
		return zero, false
	}
	if c.obs != nil {
		c.obs.CacheHit("memory")
	}
	return e.val, true
}

// Set stores v under key
func (c *Cache[T]) Set(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.m[key]; !exists && c.maxEntries > 0 && len(c.m) >= c.maxEntries {
		c.evict(now)
	}
	c.m[key] = entry[T]{val: v, exp: now.Add(c.ttl)}
}

// Len returns the number of stored entries, expired ones included
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// evict must be called with the write lock held
func (c *Cache[T]) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, k)
			continue
		}
		if oldestKey == "" || e.exp.Before(oldest) {
			oldestKey, oldest = k, e.exp
		}
	}
	if len(c.m) >= c.maxEntries && oldestKey != "" {
		delete(c.m, oldestKey)
	}
}
