// Copyright 2025 The tiercache Authors
// This file is part of the tiercache library.
//
// The tiercache library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tiercache library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tiercache library. If not, see <http://www.gnu.org/licenses/>.

// Package tiered implements a two-level cache that fronts a slow data source.
//
// A lookup consults the small, hot L1 tier first and the larger L2 tier second.
// Only when both miss is the caller-supplied Fetcher invoked, and a value it
// finds is installed into L2 and then L1. Promotion is deliberately asymmetric:
// an L1 hit never touches L2, an L2 hit re-promotes the key inside L2 and copies
// it into L1, and a direct Add writes L1 alone.
package tiered

import (
	"errors"
	"fmt"

	"github.com/tiercache/tiercache/common/lru"
	"github.com/tiercache/tiercache/log"
	"github.com/tiercache/tiercache/metrics"
)

// Tier implementation names accepted by Config.Policy.
const (
	PolicyBasic = "basic" // linked-list recency order
	PolicySlab  = "slab"  // fixed arena with recycled slot indices
)

// ErrUnknownPolicy is returned when Config names a tier implementation that
// doesn't exist.
var ErrUnknownPolicy = errors.New("tiered: unknown cache policy")

// Fetcher loads a key from the backing source. It reports false when the source
// doesn't hold the key; misses are never cached.
type Fetcher[K comparable, V any] func(key K) (V, bool)

// Config contains the sizing of both tiers.
type Config struct {
	L1Capacity int    // Entries held by the hot tier
	L2Capacity int    // Entries held by the second tier
	Policy     string // Tier implementation, "basic" or "slab"
}

// DefaultConfig mirrors the sizing used throughout the cache's own scenarios.
var DefaultConfig = Config{
	L1Capacity: 2,
	L2Capacity: 3,
	Policy:     PolicyBasic,
}

// Stats is a point-in-time copy of the keys held by each tier, ordered from
// least to most recently used.
type Stats[K comparable] struct {
	L1Keys []K
	L2Keys []K
}

// Metrics is a snapshot of the lookup counters of a Cache.
type Metrics struct {
	L1Hits      int64
	L2Hits      int64
	FetchHits   int64
	FetchMisses int64
}

// Cache is a two-level LRU cache. It is not safe for concurrent use; see Synced.
type Cache[K comparable, V any] struct {
	l1, l2 lru.Policy[K, V]

	l1Hits      *metrics.Counter
	l2Hits      *metrics.Counter
	fetchHits   *metrics.Counter
	fetchMisses *metrics.Counter

	log log.Logger
}

// New creates a cache with linked-list tiers of the given capacities.
func New[K comparable, V any](capacityL1, capacityL2 int) (*Cache[K, V], error) {
	return NewWithConfig[K, V](Config{
		L1Capacity: capacityL1,
		L2Capacity: capacityL2,
		Policy:     PolicyBasic,
	})
}

// NewWithConfig creates a cache whose tiers are built according to config.
// An empty Policy selects the linked-list implementation.
func NewWithConfig[K comparable, V any](config Config) (*Cache[K, V], error) {
	l1, err := newPolicy[K, V](config.Policy, config.L1Capacity)
	if err != nil {
		return nil, fmt.Errorf("l1: %w", err)
	}
	l2, err := newPolicy[K, V](config.Policy, config.L2Capacity)
	if err != nil {
		return nil, fmt.Errorf("l2: %w", err)
	}
	return &Cache[K, V]{
		l1:          l1,
		l2:          l2,
		l1Hits:      metrics.NewCounter(),
		l2Hits:      metrics.NewCounter(),
		fetchHits:   metrics.NewCounter(),
		fetchMisses: metrics.NewCounter(),
		log:         log.New("cache", "tiered"),
	}, nil
}

func newPolicy[K comparable, V any](policy string, capacity int) (lru.Policy[K, V], error) {
	switch policy {
	case PolicyBasic, "":
		return lru.NewBasicLRU[K, V](capacity)
	case PolicySlab:
		return lru.NewSlabLRU[K, V](capacity)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}

// GetOrFetch returns the value for key, consulting L1, then L2, then fetch.
//
// An L2 hit is copied into L1. A fetched value is written to L2 first and then
// L1. When fetch reports the key missing, neither tier is modified and the next
// call for the same key invokes fetch again.
func (c *Cache[K, V]) GetOrFetch(key K, fetch Fetcher[K, V]) (V, bool) {
	if value, ok := c.l1.Get(key); ok {
		c.l1Hits.Inc(1)
		return value, true
	}
	if value, ok := c.l2.Get(key); ok {
		c.l2Hits.Inc(1)
		c.addL1(key, value)
		return value, true
	}
	value, ok := fetch(key)
	if !ok {
		c.fetchMisses.Inc(1)
		c.log.Debug("Key not found in backing source", "key", key)
		var zero V
		return zero, false
	}
	c.fetchHits.Inc(1)
	c.log.Debug("Fetched key from backing source", "key", key)

	if c.l2.Add(key, value) {
		c.log.Trace("Evicted from L2", "key", key, "l2", c.l2.Len())
	}
	c.addL1(key, value)
	return value, true
}

// Add inserts or updates a value in L1 only. L2 is left untouched.
func (c *Cache[K, V]) Add(key K, value V) {
	c.addL1(key, value)
}

func (c *Cache[K, V]) addL1(key K, value V) {
	if c.l1.Add(key, value) {
		c.log.Trace("Evicted from L1", "key", key, "l1", c.l1.Len())
	}
}

// Stats returns the keys of both tiers. It doesn't affect recency order.
func (c *Cache[K, V]) Stats() Stats[K] {
	return Stats[K]{
		L1Keys: c.l1.Keys(),
		L2Keys: c.l2.Keys(),
	}
}

// Metrics returns the current lookup counters.
func (c *Cache[K, V]) Metrics() Metrics {
	return Metrics{
		L1Hits:      c.l1Hits.Snapshot().Count(),
		L2Hits:      c.l2Hits.Snapshot().Count(),
		FetchHits:   c.fetchHits.Snapshot().Count(),
		FetchMisses: c.fetchMisses.Snapshot().Count(),
	}
}

// RegisterMetrics publishes the lookup counters in r under tiered/<name>/.
// A nil registry means metrics.DefaultRegistry.
func (c *Cache[K, V]) RegisterMetrics(name string, r metrics.Registry) error {
	if r == nil {
		r = metrics.DefaultRegistry
	}
	prefix := "tiered/" + name + "/"
	counters := []struct {
		name    string
		counter *metrics.Counter
	}{
		{"l1/hits", c.l1Hits},
		{"l2/hits", c.l2Hits},
		{"fetch/hits", c.fetchHits},
		{"fetch/misses", c.fetchMisses},
	}
	for _, m := range counters {
		if err := r.Register(prefix+m.name, m.counter); err != nil {
			return fmt.Errorf("%s%s: %w", prefix, m.name, err)
		}
	}
	return nil
}
