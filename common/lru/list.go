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

// List is a doubly-linked list of values ordered from head (least recently
// used) to tail (most recently used). Elements handed out by Append stay valid
// until they are removed, so callers can keep them as O(1) removal handles.
//
// The zero value is an empty list ready to use.
//
// List 是按最近使用顺序排列的双向链表，头部为最久未使用，尾部为最近使用。
type List[T any] struct {
	head *Elem[T]
	tail *Elem[T]
	len  int
}

// Elem is a node of a List.
type Elem[T any] struct {
	prev, next *Elem[T]
	list       *List[T] // owning list, nil once unlinked
	Value      T
}

// Init empties the list. Outstanding elements are orphaned and must not be
// passed to Remove afterwards.
func (l *List[T]) Init() {
	for e := l.head; e != nil; {
		next := e.next
		e.prev, e.next, e.list = nil, nil, nil
		e = next
	}
	l.head, l.tail, l.len = nil, nil, 0
}

// Len returns the number of linked elements.
func (l *List[T]) Len() int { return l.len }

// Front returns the head (least recently used) element or nil.
func (l *List[T]) Front() *Elem[T] { return l.head }

// Back returns the tail (most recently used) element or nil.
func (l *List[T]) Back() *Elem[T] { return l.tail }

// Append creates a new element holding v at the tail and returns it.
// Append 在尾部创建新元素并返回它，供上层结构缓存以便 O(1) 删除。
func (l *List[T]) Append(v T) *Elem[T] {
	e := &Elem[T]{Value: v}
	l.pushBack(e)
	return e
}

// PopHead unlinks and returns the head element, or nil if the list is empty.
func (l *List[T]) PopHead() *Elem[T] {
	e := l.head
	if e == nil {
		return nil
	}
	l.unlink(e)
	return e
}

// Remove detaches e from the list. It panics if e is not currently linked into
// l, which catches double removal.
func (l *List[T]) Remove(e *Elem[T]) {
	if e == nil || e.list != l {
		panic("lru: remove of element not linked into this list")
	}
	l.unlink(e)
}

// MoveToBack makes e the tail of the list. This is a remove followed by a
// re-append of the same node, so e remains a valid handle.
func (l *List[T]) MoveToBack(e *Elem[T]) {
	if e == nil || e.list != l {
		panic("lru: move of element not linked into this list")
	}
	if l.tail == e {
		return
	}
	l.unlink(e)
	l.pushBack(e)
}

// Values returns the element values from head to tail.
func (l *List[T]) Values() []T {
	return l.appendTo(make([]T, 0, l.len))
}

func (l *List[T]) appendTo(slice []T) []T {
	for e := l.head; e != nil; e = e.next {
		slice = append(slice, e.Value)
	}
	return slice
}

func (l *List[T]) pushBack(e *Elem[T]) {
	e.list = l
	e.next = nil
	e.prev = l.tail
	if l.tail != nil {
		l.tail.next = e
	} else {
		l.head = e
	}
	l.tail = e
	l.len++
}

func (l *List[T]) unlink(e *Elem[T]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next, e.list = nil, nil, nil
	l.len--
}
