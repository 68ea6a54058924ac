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

package metrics

import (
	"errors"
	"sort"
	"sync"
)

// ErrDuplicateMetric is returned by Register when a metric already exists.
// If you mean to Register that metric you must first Unregister the existing
// metric.
var ErrDuplicateMetric = errors.New("duplicate metric")

// A Registry holds references to a set of metrics by name and can iterate
// over them, calling callback functions provided by the user.
//
// This is an interface so as to encourage other structs to implement
// the Registry API as appropriate.
type Registry interface {
	// Each calls the given function for each registered metric, in name order.
	Each(func(string, any))

	// Get the metric by the given name or nil if none is registered.
	Get(string) any

	// GetOrRegister gets an existing metric or registers the one produced by
	// the given constructor.
	GetOrRegister(string, func() any) any

	// Register the given metric under the given name.
	Register(string, any) error

	// Unregister the metric with the given name.
	Unregister(string)
}

// DefaultRegistry is the registry used when callers pass nil.
var DefaultRegistry = NewRegistry()

// StandardRegistry is the standard implementation of a Registry, a mutex
// protected map of names to metrics.
type StandardRegistry struct {
	metrics map[string]any
	mutex   sync.RWMutex
}

// NewRegistry creates a new registry.
func NewRegistry() Registry {
	return &StandardRegistry{metrics: make(map[string]any)}
}

// Each calls the given function for each registered metric.
func (r *StandardRegistry) Each(f func(string, any)) {
	r.mutex.RLock()
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	snapshot := make(map[string]any, len(r.metrics))
	for name, m := range r.metrics {
		snapshot[name] = m
	}
	r.mutex.RUnlock()

	sort.Strings(names)
	for _, name := range names {
		f(name, snapshot[name])
	}
}

// Get the metric by the given name or nil if none is registered.
func (r *StandardRegistry) Get(name string) any {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.metrics[name]
}

// GetOrRegister gets an existing metric or creates and registers a new one.
// Threadsafe alternative to calling Get and Register on failure.
func (r *StandardRegistry) GetOrRegister(name string, ctor func() any) any {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if m, ok := r.metrics[name]; ok {
		return m
	}
	m := ctor()
	r.metrics[name] = m
	return m
}

// Register the given metric under the given name. Returns a ErrDuplicateMetric
// if a metric by the given name is already registered.
func (r *StandardRegistry) Register(name string, m any) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.metrics[name]; ok {
		return ErrDuplicateMetric
	}
	r.metrics[name] = m
	return nil
}

// Unregister the metric with the given name.
func (r *StandardRegistry) Unregister(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.metrics, name)
}
