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

package lru

import (
	"fmt"
	"strings"
)

type slabEntry[K any, V any] struct {
	key   K
	value V
}

// SlabLRU is an LRU cache whose entries live in a fixed-size Slab allocated
// up front. The key index maps to slab positions; an evicted entry's slot is
// handed straight to the entry that displaced it, so an index is only stable
// while its key stays cached.
//
// This type is not safe for concurrent use.
// The zero value is not valid, instances must be created using NewSlabLRU.
type SlabLRU[K comparable, V any] struct {
	slab  *Slab[slabEntry[K, V]]
	index map[K]int
}

// NewSlabLRU creates a slab-backed LRU cache holding at most capacity entries.
func NewSlabLRU[K comparable, V any](capacity int) (*SlabLRU[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &SlabLRU[K, V]{
		slab:  NewSlab[slabEntry[K, V]](capacity),
		index: make(map[K]int, capacity),
	}, nil
}

// Add inserts or updates key. An update rewrites the value in place and
// promotes the slot. Returns true if the least recently used entry was evicted.
func (c *SlabLRU[K, V]) Add(key K, value V) (evicted bool) {
	if i, ok := c.index[key]; ok {
		c.slab.Set(i, slabEntry[K, V]{key, value})
		c.slab.MoveToBack(i)
		return false
	}
	if len(c.index) >= c.slab.Cap() {
		_, old, ok := c.slab.PopHead()
		if !ok {
			panic(errOutOfSync)
		}
		delete(c.index, old.key)
		evicted = true
	}
	// The slot freed above sits on top of the free stack, so Append reuses it.
	c.index[key] = c.slab.Append(slabEntry[K, V]{key, value})
	return evicted
}

// Get retrieves a value from the cache and marks the key as recently used.
func (c *SlabLRU[K, V]) Get(key K) (value V, ok bool) {
	i, ok := c.index[key]
	if !ok {
		return value, false
	}
	c.slab.MoveToBack(i)
	return c.slab.Get(i).value, true
}

// Peek retrieves a value without updating its recency.
func (c *SlabLRU[K, V]) Peek(key K) (value V, ok bool) {
	i, ok := c.index[key]
	if !ok {
		return value, false
	}
	return c.slab.Get(i).value, true
}

// Contains reports whether the given key exists in the cache.
func (c *SlabLRU[K, V]) Contains(key K) bool {
	_, ok := c.index[key]
	return ok
}

// Slot returns the slab index currently holding key.
func (c *SlabLRU[K, V]) Slot(key K) (int, bool) {
	i, ok := c.index[key]
	return i, ok
}

// Remove drops key and frees its slot.
func (c *SlabLRU[K, V]) Remove(key K) bool {
	i, ok := c.index[key]
	if ok {
		delete(c.index, key)
		c.slab.Remove(i)
	}
	return ok
}

// GetOldest returns the least recently used entry without touching it.
func (c *SlabLRU[K, V]) GetOldest() (key K, value V, ok bool) {
	head := c.slab.Head()
	if head == NoSlot {
		return key, value, false
	}
	e := c.slab.Get(head)
	return e.key, e.value, true
}

// RemoveOldest evicts the least recently used entry.
func (c *SlabLRU[K, V]) RemoveOldest() (key K, value V, ok bool) {
	_, e, ok := c.slab.PopHead()
	if !ok {
		return key, value, false
	}
	delete(c.index, e.key)
	return e.key, e.value, true
}

// Len returns the number of cached entries.
func (c *SlabLRU[K, V]) Len() int { return c.slab.Len() }

// Cap returns the slab size.
func (c *SlabLRU[K, V]) Cap() int { return c.slab.Cap() }

// Purge empties the cache, keeping the slab allocation.
func (c *SlabLRU[K, V]) Purge() {
	c.slab.Reset()
	clear(c.index)
}

// Keys returns all keys ordered from least to most recently used.
func (c *SlabLRU[K, V]) Keys() []K {
	entries := c.slab.Values()
	keys := make([]K, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys
}

// String renders the cache as "key:value" pairs from least to most recently
// used, e.g. "a:1, c:3, b:2".
func (c *SlabLRU[K, V]) String() string {
	var b strings.Builder
	for i, e := range c.slab.Values() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v:%v", e.key, e.value)
	}
	return b.String()
}
