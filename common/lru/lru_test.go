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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheConcurrentAccess(t *testing.T) {
	for name, newCache := range map[string]func(int) (*Cache[int, int], error){
		"basic": NewCache[int, int],
		"slab":  NewSlabCache[int, int],
	} {
		t.Run(name, func(t *testing.T) {
			c, err := newCache(64)
			require.NoError(t, err)

			var wg sync.WaitGroup
			for w := 0; w < 8; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < 1000; i++ {
						k := (w*1000 + i) % 200
						c.Add(k, i)
						c.Get(k / 2)
						c.Contains(k)
						if i%50 == 0 {
							c.Remove(k)
						}
					}
				}(w)
			}
			wg.Wait()

			assert.LessOrEqual(t, c.Len(), 64)
			assert.Len(t, c.Keys(), c.Len())
		})
	}
}

func TestCacheDelegates(t *testing.T) {
	c, err := NewCache[string, int](2)
	require.NoError(t, err)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a")
	assert.True(t, c.Add("c", 3))
	assert.Equal(t, []string{"a", "c"}, c.Keys())

	v, ok := c.Peek("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.True(t, c.Remove("a"))
	assert.False(t, c.Contains("a"))

	c.Purge()
	assert.Zero(t, c.Len())

	_, err = NewSlabCache[string, int](0)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}
