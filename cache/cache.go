// Copyright 2024 Fincapy, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache implements the capacity-bounded hot cache with write-back
// eviction. It wraps hashicorp/golang-lru/v2, whose built-in OnEvict
// hook is exactly the write-back shape this needs, instead of
// hand-rolling a doubly-linked-list LRU.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCapacity is the hot cache's default entry capacity.
const DefaultCapacity = 2000

// EvictHook is invoked synchronously when Set evicts the least-recently
// used entry to stay within capacity.
type EvictHook[K comparable, V any] func(key K, value V)

// Cache is a capacity-bounded, recency-ordered map. A capacity <= 0
// accepts no insertions (every Set is a no-op).
type Cache[K comparable, V any] struct {
	capacity int
	inner    *lru.Cache[K, V]
	hook     EvictHook[K, V]

	hits    prometheus.Counter
	misses  prometheus.Counter
	evicted prometheus.Counter
}

// Metrics are the prometheus collectors a Cache reports through. Callers
// share one Metrics across caches registered under distinct labels, or
// pass nil to disable instrumentation.
type Metrics struct {
	Hits    prometheus.Counter
	Misses  prometheus.Counter
	Evicted prometheus.Counter
}

// New builds a Cache with the given capacity and eviction hook.
func New[K comparable, V any](capacity int, hook EvictHook[K, V], m *Metrics) *Cache[K, V] {
	c := &Cache[K, V]{capacity: capacity, hook: hook}
	if m != nil {
		c.hits, c.misses, c.evicted = m.Hits, m.Misses, m.Evicted
	}
	if capacity <= 0 {
		return c
	}
	inner, err := lru.NewWithEvict[K, V](capacity, func(key K, value V) {
		if c.evicted != nil {
			c.evicted.Inc()
		}
		if c.hook != nil {
			c.hook(key, value)
		}
	})
	if err != nil {
		// Only possible if capacity <= 0, already handled above.
		panic(err)
	}
	c.inner = inner
	return c
}

// Get returns the value for key and moves it to most-recently-used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c.inner == nil {
		if c.misses != nil {
			c.misses.Inc()
		}
		return zero, false
	}
	v, ok := c.inner.Get(key)
	if ok {
		if c.hits != nil {
			c.hits.Inc()
		}
	} else if c.misses != nil {
		c.misses.Inc()
	}
	return v, ok
}

// Set inserts or updates key, moving it to most-recently-used. If this
// exceeds capacity, the least-recently-used entry is evicted and the
// eviction hook invoked with its (key, value) before Set returns.
func (c *Cache[K, V]) Set(key K, value V) {
	if c.inner == nil {
		return
	}
	c.inner.Add(key, value)
}

// Peek returns the value for key without moving it to most-recently-used
// and without affecting the hit/miss counters — for introspection
// callers (stats, size estimation) that must not perturb eviction order.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	var zero V
	if c.inner == nil {
		return zero, false
	}
	return c.inner.Peek(key)
}

// Has reports whether key is present, without affecting recency order.
func (c *Cache[K, V]) Has(key K) bool {
	if c.inner == nil {
		return false
	}
	return c.inner.Contains(key)
}

// Delete removes key if present, without invoking the eviction hook
// (explicit removal is not an eviction).
func (c *Cache[K, V]) Delete(key K) {
	if c.inner == nil {
		return
	}
	c.inner.Remove(key)
}

// Len returns the number of entries currently cached.
func (c *Cache[K, V]) Len() int {
	if c.inner == nil {
		return 0
	}
	return c.inner.Len()
}

// Keys returns all keys in recency order, oldest first.
func (c *Cache[K, V]) Keys() []K {
	if c.inner == nil {
		return nil
	}
	return c.inner.Keys()
}

// Capacity returns the configured capacity.
func (c *Cache[K, V]) Capacity() int { return c.capacity }
