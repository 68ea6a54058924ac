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

// Package metrics provides lightweight counters and a named registry for them.
// Package metrics 提供轻量级计数器及其命名注册表。
package metrics

import "sync/atomic"

// Counter holds an int64 value that can be incremented and decremented.
type Counter struct {
	count atomic.Int64
}

// CounterSnapshot is a read-only copy of a Counter.
type CounterSnapshot int64

// Count returns the count at the time the snapshot was taken.
func (c CounterSnapshot) Count() int64 { return int64(c) }

// NewCounter constructs a new Counter.
func NewCounter() *Counter {
	return new(Counter)
}

// NewRegisteredCounter constructs and registers a new Counter. A nil registry
// means DefaultRegistry.
func NewRegisteredCounter(name string, r Registry) *Counter {
	c := NewCounter()
	if r == nil {
		r = DefaultRegistry
	}
	r.Register(name, c)
	return c
}

// GetOrRegisterCounter returns an existing Counter or constructs and registers
// a new one.
func GetOrRegisterCounter(name string, r Registry) *Counter {
	if r == nil {
		r = DefaultRegistry
	}
	return r.GetOrRegister(name, func() any { return NewCounter() }).(*Counter)
}

// Clear sets the counter to zero.
func (c *Counter) Clear() {
	c.count.Store(0)
}

// Dec decrements the counter by the given amount.
func (c *Counter) Dec(i int64) {
	c.count.Add(-i)
}

// Inc increments the counter by the given amount.
func (c *Counter) Inc(i int64) {
	c.count.Add(i)
}

// Snapshot returns a read-only copy of the counter.
func (c *Counter) Snapshot() CounterSnapshot {
	return CounterSnapshot(c.count.Load())
}
