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

// NoSlot is the link value of a slab cell that has no neighbour on that side.
const NoSlot = -1

type slabCell[T any] struct {
	prev, next int
	used       bool
	value      T
}

// Slab is a fixed-capacity doubly-linked list whose cells live in one
// contiguous array and link to each other by index. Freed cells are kept on a
// LIFO free stack, so the slot released by PopHead or Remove is the first one
// handed out by the next Append.
//
// Slab 将所有条目存放在一个固定大小的连续数组中，前后指针以数组下标表示。
type Slab[T any] struct {
	cells []slabCell[T]
	free  []int
	head  int
	tail  int
	size  int
}

// NewSlab allocates a slab with room for capacity entries.
func NewSlab[T any](capacity int) *Slab[T] {
	if capacity <= 0 {
		panic("lru: slab capacity must be positive")
	}
	s := &Slab[T]{
		cells: make([]slabCell[T], capacity),
		free:  make([]int, 0, capacity),
	}
	s.Reset()
	return s
}

// Reset frees every cell. Previously returned indices become invalid.
func (s *Slab[T]) Reset() {
	clear(s.cells)
	s.free = s.free[:0]
	for i := len(s.cells) - 1; i >= 0; i-- {
		s.free = append(s.free, i)
	}
	s.head, s.tail, s.size = NoSlot, NoSlot, 0
}

// Len returns the number of occupied cells.
func (s *Slab[T]) Len() int { return s.size }

// Cap returns the fixed number of cells.
func (s *Slab[T]) Cap() int { return len(s.cells) }

// Head returns the index of the least recently used cell, or NoSlot.
func (s *Slab[T]) Head() int { return s.head }

// Tail returns the index of the most recently used cell, or NoSlot.
func (s *Slab[T]) Tail() int { return s.tail }

// Append stores v in a free cell linked at the tail and returns its index.
// It panics when the slab is full; callers must pop or remove first.
func (s *Slab[T]) Append(v T) int {
	if len(s.free) == 0 {
		panic("lru: append to full slab")
	}
	i := s.free[len(s.free)-1]
	s.free = s.free[:len(s.free)-1]

	s.cells[i] = slabCell[T]{used: true, value: v}
	s.link(i)
	s.size++
	return i
}

// PopHead frees the head cell and returns its index and value. ok is false if
// the slab is empty.
func (s *Slab[T]) PopHead() (index int, value T, ok bool) {
	if s.head == NoSlot {
		return NoSlot, value, false
	}
	index = s.head
	value = s.cells[index].value
	s.release(index)
	return index, value, true
}

// Remove frees the cell at index i. It panics if i does not refer to an
// occupied cell.
func (s *Slab[T]) Remove(i int) {
	s.check(i)
	s.release(i)
}

// MoveToBack relinks cell i at the tail. The cell keeps its index and value;
// only the neighbouring links and the tail pointer change.
func (s *Slab[T]) MoveToBack(i int) {
	s.check(i)
	if s.tail == i {
		return
	}
	s.unlink(i)
	s.link(i)
}

// Get returns the value stored in cell i.
func (s *Slab[T]) Get(i int) T {
	s.check(i)
	return s.cells[i].value
}

// Set overwrites the value stored in cell i without touching its position.
func (s *Slab[T]) Set(i int, v T) {
	s.check(i)
	s.cells[i].value = v
}

// Values returns the stored values from head to tail.
func (s *Slab[T]) Values() []T {
	vals := make([]T, 0, s.size)
	for i := s.head; i != NoSlot; i = s.cells[i].next {
		vals = append(vals, s.cells[i].value)
	}
	return vals
}

func (s *Slab[T]) check(i int) {
	if i < 0 || i >= len(s.cells) || !s.cells[i].used {
		panic("lru: slab index does not refer to a linked cell")
	}
}

// link attaches an already occupied cell at the tail.
func (s *Slab[T]) link(i int) {
	c := &s.cells[i]
	c.prev, c.next = s.tail, NoSlot
	if s.tail != NoSlot {
		s.cells[s.tail].next = i
	} else {
		s.head = i
	}
	s.tail = i
}

func (s *Slab[T]) unlink(i int) {
	c := &s.cells[i]
	if c.prev != NoSlot {
		s.cells[c.prev].next = c.next
	} else {
		s.head = c.next
	}
	if c.next != NoSlot {
		s.cells[c.next].prev = c.prev
	} else {
		s.tail = c.prev
	}
	c.prev, c.next = NoSlot, NoSlot
}

func (s *Slab[T]) release(i int) {
	s.unlink(i)
	s.cells[i] = slabCell[T]{prev: NoSlot, next: NoSlot}
	s.free = append(s.free, i)
	s.size--
}
