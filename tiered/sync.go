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

package tiered

import "sync"

// Synced is a Cache guarded by a single mutex that spans both tiers. The fetch
// callback runs with the lock held, so concurrent lookups of a missing key
// reach the backing source once and no caller observes a half-installed value.
type Synced[K comparable, V any] struct {
	cache *Cache[K, V]
	mu    sync.Mutex
}

// NewSynced creates a concurrency-safe cache with linked-list tiers.
func NewSynced[K comparable, V any](capacityL1, capacityL2 int) (*Synced[K, V], error) {
	c, err := New[K, V](capacityL1, capacityL2)
	if err != nil {
		return nil, err
	}
	return Wrap(c), nil
}

// Wrap guards an existing cache. The cache must not be used directly afterwards.
func Wrap[K comparable, V any](c *Cache[K, V]) *Synced[K, V] {
	return &Synced[K, V]{cache: c}
}

// GetOrFetch is the locked version of Cache.GetOrFetch.
func (s *Synced[K, V]) GetOrFetch(key K, fetch Fetcher[K, V]) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cache.GetOrFetch(key, fetch)
}

// Add writes a value into L1.
func (s *Synced[K, V]) Add(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(key, value)
}

// Stats returns the keys of both tiers.
func (s *Synced[K, V]) Stats() Stats[K] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cache.Stats()
}

// Metrics returns the current lookup counters.
func (s *Synced[K, V]) Metrics() Metrics {
	// Counters are atomic, no lock needed.
	return s.cache.Metrics()
}
