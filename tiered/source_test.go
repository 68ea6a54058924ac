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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiercache/tiercache/common/mclock"
	"github.com/tiercache/tiercache/ethdb/memorydb"
	"golang.org/x/time/rate"
)

func TestDatabaseFetcher(t *testing.T) {
	db := memorydb.New()
	defer db.Close()
	for key, name := range users {
		require.NoError(t, db.Put([]byte(key), []byte(name)))
	}
	c, err := New[string, []byte](2, 3)
	require.NoError(t, err)
	fetch := DatabaseFetcher(db)

	v, ok := c.GetOrFetch("user:3", fetch)
	require.True(t, ok)
	assert.Equal(t, []byte("Stephen"), v)
	checkStatsBytes(t, c, []string{"user:3"}, []string{"user:3"})

	v, ok = c.GetOrFetch("user:100", fetch)
	assert.False(t, ok)
	assert.Nil(t, v)
	checkStatsBytes(t, c, []string{"user:3"}, []string{"user:3"})
}

// errReader fails every read with an error other than not-found.
type errReader struct{}

func (errReader) Has([]byte) (bool, error)    { return false, errors.New("disk on fire") }
func (errReader) Get([]byte) ([]byte, error) { return nil, errors.New("disk on fire") }

func TestDatabaseFetcherReadError(t *testing.T) {
	c, err := New[string, []byte](2, 3)
	require.NoError(t, err)

	_, ok := c.GetOrFetch("user:1", DatabaseFetcher(errReader{}))
	assert.False(t, ok)
	checkStatsBytes(t, c, []string{}, []string{})
	assert.Equal(t, int64(1), c.Metrics().FetchMisses)
}

func TestDatabaseFetcherClosed(t *testing.T) {
	db := memorydb.New()
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	db.Close()

	_, ok := DatabaseFetcher(db)("k")
	assert.False(t, ok)
}

func TestSlowFetcher(t *testing.T) {
	var clock mclock.Simulated
	start := clock.Now()
	fetch := SlowFetcher(MapFetcher(users), 50*time.Millisecond, &clock)

	c, err := New[string, string](2, 3)
	require.NoError(t, err)

	c.GetOrFetch("user:1", fetch)
	c.GetOrFetch("user:2", fetch)
	assert.Equal(t, 100*time.Millisecond, clock.Now().Sub(start))

	// Hits don't pay the source latency.
	c.GetOrFetch("user:1", fetch)
	c.GetOrFetch("user:2", fetch)
	assert.Equal(t, 100*time.Millisecond, clock.Now().Sub(start))

	// Misses do, every time.
	c.GetOrFetch("user:100", fetch)
	c.GetOrFetch("user:100", fetch)
	assert.Equal(t, 200*time.Millisecond, clock.Now().Sub(start))
}

func TestSlowFetcherSystemClock(t *testing.T) {
	fetch := SlowFetcher(MapFetcher(users), 0, nil)
	v, ok := fetch("user:4")
	assert.True(t, ok)
	assert.Equal(t, "David", v)
}

func TestThrottledFetcher(t *testing.T) {
	fetch := ThrottledFetcher(MapFetcher(users), rate.NewLimiter(rate.Inf, 0))
	v, ok := fetch("user:1")
	assert.True(t, ok)
	assert.Equal(t, "Alice", v)

	// A zero burst with a finite rate can never admit a call.
	c, err := New[string, string](2, 3)
	require.NoError(t, err)
	_, ok = c.GetOrFetch("user:1", ThrottledFetcher(MapFetcher(users), rate.NewLimiter(1, 0)))
	assert.False(t, ok)
	checkStats(t, c, []string{}, []string{})
}

func checkStatsBytes(t *testing.T, c *Cache[string, []byte], l1, l2 []string) {
	t.Helper()
	stats := c.Stats()
	assert.Equal(t, l1, stats.L1Keys, "L1 keys")
	assert.Equal(t, l2, stats.L2Keys, "L2 keys")
}
