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
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncedConcurrentLookups(t *testing.T) {
	c, err := NewSynced[int, int](8, 32)
	require.NoError(t, err)

	var calls atomic.Int64
	fetch := func(key int) (int, bool) {
		calls.Add(1)
		return key * 10, key%5 != 0
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := (g + i) % 40
				v, ok := c.GetOrFetch(key, fetch)
				if key%5 == 0 {
					assert.False(t, ok)
					continue
				}
				assert.True(t, ok)
				assert.Equal(t, key*10, v)
				if i%50 == 0 {
					c.Add(key, key*10)
				}
			}
		}(g)
	}
	wg.Wait()

	stats := c.Stats()
	assert.LessOrEqual(t, len(stats.L1Keys), 8)
	assert.LessOrEqual(t, len(stats.L2Keys), 32)

	m := c.Metrics()
	assert.Equal(t, int64(8*500), m.L1Hits+m.L2Hits+m.FetchHits+m.FetchMisses)
	assert.Equal(t, calls.Load(), m.FetchHits+m.FetchMisses)
}

// Concurrent lookups of one cold key reach the source exactly once.
func TestSyncedSingleFetchPerColdKey(t *testing.T) {
	c, err := NewSynced[string, string](2, 3)
	require.NoError(t, err)

	var calls atomic.Int64
	fetch := func(key string) (string, bool) {
		calls.Add(1)
		return fmt.Sprintf("value of %s", key), true
	}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok := c.GetOrFetch("user:1", fetch)
			assert.True(t, ok)
			assert.Equal(t, "value of user:1", v)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), calls.Load())
}

func TestSyncedInvalidCapacity(t *testing.T) {
	_, err := NewSynced[string, string](0, 0)
	assert.Error(t, err)
}
