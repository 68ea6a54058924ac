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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkSlab verifies link symmetry, the free stack and the size counter.
func checkSlab[T any](t *testing.T, s *Slab[T]) {
	t.Helper()

	require.Equal(t, s.Cap(), s.Len()+len(s.free), "occupied and free cells do not add up")
	if s.size == 0 {
		require.Equal(t, NoSlot, s.head)
		require.Equal(t, NoSlot, s.tail)
		return
	}
	require.Equal(t, NoSlot, s.cells[s.head].prev)
	require.Equal(t, NoSlot, s.cells[s.tail].next)

	n, last := 0, NoSlot
	for i := s.head; i != NoSlot; i = s.cells[i].next {
		require.True(t, s.cells[i].used, "free cell %d linked into chain", i)
		require.Equal(t, last, s.cells[i].prev, "broken back link at %d", i)
		last = i
		n++
		require.LessOrEqual(t, n, s.size, "cycle in slab")
	}
	require.Equal(t, s.size, n)
	require.Equal(t, s.tail, last)
}

func TestSlabAppendFillsInOrder(t *testing.T) {
	s := NewSlab[string](3)
	assert.Equal(t, 0, s.Append("a"))
	assert.Equal(t, 1, s.Append("b"))
	assert.Equal(t, 2, s.Append("c"))
	assert.Equal(t, []string{"a", "b", "c"}, s.Values())
	checkSlab(t, s)

	assert.Panics(t, func() { s.Append("d") })
}

func TestSlabPopReusesSlot(t *testing.T) {
	s := NewSlab[string](3)
	s.Append("a")
	s.Append("b")
	s.Append("c")

	i, v, ok := s.PopHead()
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, "a", v)
	checkSlab(t, s)

	assert.Equal(t, i, s.Append("d"), "freed slot must be reused")
	assert.Equal(t, []string{"b", "c", "d"}, s.Values())
	checkSlab(t, s)
}

func TestSlabMoveToBack(t *testing.T) {
	s := NewSlab[int](4)
	for v := 1; v <= 4; v++ {
		s.Append(v)
	}
	s.MoveToBack(0) // head
	assert.Equal(t, []int{2, 3, 4, 1}, s.Values())
	s.MoveToBack(2) // middle
	assert.Equal(t, []int{2, 4, 1, 3}, s.Values())
	s.MoveToBack(2) // already tail
	assert.Equal(t, []int{2, 4, 1, 3}, s.Values())
	checkSlab(t, s)

	assert.Equal(t, 1, s.Head())
	assert.Equal(t, 2, s.Tail())
}

func TestSlabRemove(t *testing.T) {
	s := NewSlab[int](3)
	a := s.Append(1)
	b := s.Append(2)
	c := s.Append(3)

	s.Remove(b)
	assert.Equal(t, []int{1, 3}, s.Values())
	checkSlab(t, s)

	s.Remove(c)
	s.Remove(a)
	checkSlab(t, s)

	_, _, ok := s.PopHead()
	assert.False(t, ok)
}

func TestSlabInvalidIndexPanics(t *testing.T) {
	s := NewSlab[int](2)
	i := s.Append(1)
	s.Remove(i)

	assert.Panics(t, func() { s.Remove(i) })
	assert.Panics(t, func() { s.MoveToBack(i) })
	assert.Panics(t, func() { s.Get(i) })
	assert.Panics(t, func() { s.Set(NoSlot, 1) })
	assert.Panics(t, func() { s.Get(2) })
	assert.Panics(t, func() { NewSlab[int](0) })
}

func TestSlabSingleCell(t *testing.T) {
	s := NewSlab[int](1)
	i := s.Append(1)
	assert.Equal(t, s.Head(), s.Tail())
	s.MoveToBack(i)
	checkSlab(t, s)

	_, v, ok := s.PopHead()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, i, s.Append(2))
	checkSlab(t, s)
}

func TestSlabReset(t *testing.T) {
	s := NewSlab[int](2)
	s.Append(1)
	s.Append(2)
	s.Reset()
	checkSlab(t, s)
	assert.Equal(t, 0, s.Append(3))
}
