// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"container/heap"
)

// queue is a FIFO queue used for breadth-first walks over the graph. The zero
// value is ready to use.
type queue[T any] struct {
	items []T
}

// push adds an item to the back of the queue.
func (q *queue[T]) push(item T) {
	q.items = append(q.items, item)
}

// pop removes and returns the item at the front of the queue. It returns
// false if the queue is empty.
func (q *queue[T]) pop() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// empty reports whether the queue holds no items.
func (q *queue[T]) empty() bool {
	return len(q.items) == 0
}

// priorityQueue is a heap ordered by less, where less(a, b) reports whether a
// must be popped before b. Use newPriorityQueue to create one.
type priorityQueue[T any] struct {
	impl *heapImpl[T]
}

func newPriorityQueue[T any](less func(a, b T) bool) *priorityQueue[T] {
	return &priorityQueue[T]{
		impl: &heapImpl[T]{less: less},
	}
}

// push adds an item to the priority queue.
func (pq *priorityQueue[T]) push(item T) {
	heap.Push(pq.impl, item)
}

// pop removes and returns the highest priority item. It returns false if the
// queue is empty.
func (pq *priorityQueue[T]) pop() (T, bool) {
	if pq.impl.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(pq.impl).(T), true
}

// empty reports whether the queue holds no items.
func (pq *priorityQueue[T]) empty() bool {
	return pq.impl.Len() == 0
}

// heapImpl implements heap.Interface to integrate with container/heap.
type heapImpl[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h *heapImpl[T]) Len() int {
	return len(h.items)
}

func (h *heapImpl[T]) Less(i, j int) bool {
	return h.less(h.items[i], h.items[j])
}

func (h *heapImpl[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *heapImpl[T]) Push(x any) {
	h.items = append(h.items, x.(T))
}

func (h *heapImpl[T]) Pop() any {
	n := len(h.items) - 1
	item := h.items[n]
	h.items = h.items[:n]
	return item
}
