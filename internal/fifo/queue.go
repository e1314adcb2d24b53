// Package fifo provides an unbounded first-in first-out queue. It does no
// locking; callers either confine a Queue to one goroutine or guard it.
package fifo

type Queue[T any] struct {
	items []T
	head  int
}

func (q *Queue[T]) Push(v T) {
	q.items = append(q.items, v)
}

// Pop removes the oldest element. ok is false when the queue is empty.
func (q *Queue[T]) Pop() (v T, ok bool) {
	if q.head >= len(q.items) {
		return v, false
	}
	v = q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 32 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return v, true
}

func (q *Queue[T]) Peek() (v T, ok bool) {
	if q.head >= len(q.items) {
		return v, false
	}
	return q.items[q.head], true
}

func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

// Clear drops every element and returns how many were dropped.
func (q *Queue[T]) Clear() int {
	n := q.Len()
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
	return n
}

// Drain removes and returns every element in order.
func (q *Queue[T]) Drain() []T {
	if q.Len() == 0 {
		return nil
	}
	out := make([]T, q.Len())
	copy(out, q.items[q.head:])
	q.Clear()
	return out
}
