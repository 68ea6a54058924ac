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

// Package lru implements generically-typed LRU caches.
package lru

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned by the constructors when asked for a cache
// that cannot hold a single entry.
var ErrInvalidCapacity = errors.New("lru: capacity must be positive")

// errOutOfSync is the panic value raised when the recency order is empty while
// the key index still claims the cache is full.
const errOutOfSync = "lru: ordering structure out of sync with cache index"

// Policy is the contract shared by the LRU realizations in this package.
// Policy 是本包中各 LRU 实现共享的接口。
type Policy[K comparable, V any] interface {
	// Add inserts or updates an entry and marks it most recently used. It
	// reports whether the least recently used entry had to be evicted.
	Add(key K, value V) (evicted bool)

	// Get returns the value for key and marks it most recently used.
	Get(key K) (value V, ok bool)

	// Peek returns the value for key without updating its recency.
	Peek(key K) (value V, ok bool)

	// Contains reports whether key is cached, without updating its recency.
	Contains(key K) bool

	// Remove drops key from the cache.
	Remove(key K) bool

	// GetOldest returns the least recently used entry.
	GetOldest() (key K, value V, ok bool)

	// RemoveOldest drops and returns the least recently used entry.
	RemoveOldest() (key K, value V, ok bool)

	// Keys returns the cached keys from least to most recently used.
	Keys() []K

	Len() int
	Cap() int
	Purge()
}

var (
	_ Policy[string, int] = (*BasicLRU[string, int])(nil)
	_ Policy[string, int] = (*SlabLRU[string, int])(nil)
)

// BasicLRU is a simple LRU cache backed by a map of keys to list elements.
//
// This type is not safe for concurrent use.
// The zero value is not valid, instances must be created using NewBasicLRU.
type BasicLRU[K comparable, V any] struct {
	list  List[K]
	items map[K]cacheItem[K, V]
	cap   int
}

type cacheItem[K any, V any] struct {
	elem  *Elem[K]
	value V
}

// NewBasicLRU creates a new LRU cache holding at most capacity entries.
func NewBasicLRU[K comparable, V any](capacity int) (*BasicLRU[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &BasicLRU[K, V]{
		items: make(map[K]cacheItem[K, V], capacity),
		cap:   capacity,
	}, nil
}

// Add adds a value to the cache. Returns true if an item was evicted to store the new item.
// Add 向缓存中添加值，如果为存储新项而驱逐了旧项则返回 true。
func (c *BasicLRU[K, V]) Add(key K, value V) (evicted bool) {
	item, ok := c.items[key]
	if ok {
		// Already exists in cache.
		item.value = value
		c.items[key] = item
		c.list.MoveToBack(item.elem)
		return false
	}

	var elem *Elem[K]
	if c.Len() >= c.cap {
		elem = c.list.PopHead()
		if elem == nil {
			panic(errOutOfSync)
		}
		delete(c.items, elem.Value)
		evicted = true
	} else {
		elem = new(Elem[K])
	}

	// Store the new item.
	// Note that, if another item was evicted, we re-use its list element here.
	elem.Value = key
	c.items[key] = cacheItem[K, V]{elem, value}
	c.list.pushBack(elem)
	return evicted
}

// Contains reports whether the given key exists in the cache.
func (c *BasicLRU[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Get retrieves a value from the cache. This marks the key as recently used.
func (c *BasicLRU[K, V]) Get(key K) (value V, ok bool) {
	item, ok := c.items[key]
	if !ok {
		return value, false
	}
	c.list.MoveToBack(item.elem)
	return item.value, true
}

// GetOldest retrieves the least-recently-used item.
// Note that this does not update the item's recency.
func (c *BasicLRU[K, V]) GetOldest() (key K, value V, ok bool) {
	head := c.list.Front()
	if head == nil {
		return key, value, false
	}
	key = head.Value
	return key, c.items[key].value, true
}

// Len returns the current number of items in the cache.
func (c *BasicLRU[K, V]) Len() int {
	return len(c.items)
}

// Cap returns the maximum number of items the cache holds.
func (c *BasicLRU[K, V]) Cap() int {
	return c.cap
}

// Peek retrieves a value from the cache, but does not mark the key as recently used.
func (c *BasicLRU[K, V]) Peek(key K) (value V, ok bool) {
	item, ok := c.items[key]
	return item.value, ok
}

// Purge empties the cache.
func (c *BasicLRU[K, V]) Purge() {
	c.list.Init()
	clear(c.items)
}

// Remove drops an item from the cache. Returns true if the key was present in cache.
func (c *BasicLRU[K, V]) Remove(key K) bool {
	item, ok := c.items[key]
	if ok {
		delete(c.items, key)
		c.list.Remove(item.elem)
	}
	return ok
}

// RemoveOldest drops the least recently used item.
func (c *BasicLRU[K, V]) RemoveOldest() (key K, value V, ok bool) {
	head := c.list.PopHead()
	if head == nil {
		return key, value, false
	}
	key = head.Value
	value = c.items[key].value
	delete(c.items, key)
	return key, value, true
}

// Keys returns all keys in the cache, ordered from least to most recently used.
func (c *BasicLRU[K, V]) Keys() []K {
	return c.list.appendTo(make([]K, 0, len(c.items)))
}
