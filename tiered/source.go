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

import (
	"context"
	"time"

	"github.com/tiercache/tiercache/common/mclock"
	"github.com/tiercache/tiercache/ethdb"
	"github.com/tiercache/tiercache/log"
	"golang.org/x/time/rate"
)

// DatabaseFetcher adapts a key-value store into a Fetcher. A missing key is
// reported as not found. Any other read error is logged and also reported as
// not found, since a fetch has no way to surface it.
func DatabaseFetcher(db ethdb.KeyValueReader) Fetcher[string, []byte] {
	return func(key string) ([]byte, bool) {
		blob, err := db.Get([]byte(key))
		if err != nil {
			if !ethdb.IsNotFound(err) {
				log.Warn("Failed to read from backing source", "key", key, "err", err)
			}
			return nil, false
		}
		return blob, true
	}
}

// MapFetcher serves lookups from a fixed map.
func MapFetcher[K comparable, V any](data map[K]V) Fetcher[K, V] {
	return func(key K) (V, bool) {
		v, ok := data[key]
		return v, ok
	}
}

// SlowFetcher delays every call to fetch by the given latency, measured on
// clock. A nil clock means the system clock.
func SlowFetcher[K comparable, V any](fetch Fetcher[K, V], latency time.Duration, clock mclock.Clock) Fetcher[K, V] {
	if clock == nil {
		clock = mclock.System{}
	}
	return func(key K) (V, bool) {
		if latency > 0 {
			clock.Sleep(latency)
		}
		return fetch(key)
	}
}

// ThrottledFetcher admits calls to fetch at the rate allowed by limiter,
// blocking callers until a token is available. A call the limiter can never
// admit is reported as not found.
func ThrottledFetcher[K comparable, V any](fetch Fetcher[K, V], limiter *rate.Limiter) Fetcher[K, V] {
	return func(key K) (V, bool) {
		if err := limiter.Wait(context.Background()); err != nil {
			log.Warn("Backing source read rejected by rate limiter", "key", key, "err", err)
			var zero V
			return zero, false
		}
		return fetch(key)
	}
}
