// Implements the RingQueue, which holds processes waiting for memory (input queue)
// or for the CPU (ready queue).

package sim

import (
	"fmt"
	"strings"
)

const (
	initialQueueCapacity = 5
	queueGrowthFactor    = 2
)

// RingQueue is a growable circular FIFO queue.
// Besides Enqueue/Dequeue it supports removal at an arbitrary position, which
// SJF selection and the best-fit allocation pass use to pull items out of order.
// Wraparound is never visible to callers: every index is relative to the head.
type RingQueue[T any] struct {
	items []T
	head  int
	size  int
}

// NewRingQueue creates an empty queue with the initial capacity.
func NewRingQueue[T any]() *RingQueue[T] {
	return &RingQueue[T]{items: make([]T, initialQueueCapacity)}
}

// slot maps a head-relative index onto the backing array.
func (q *RingQueue[T]) slot(i int) int {
	return (q.head + i) % len(q.items)
}

// grow doubles the capacity and compacts the items so the head sits at index 0.
func (q *RingQueue[T]) grow() {
	newCap := len(q.items) * queueGrowthFactor
	if newCap == 0 {
		newCap = initialQueueCapacity
	}
	items := make([]T, newCap)
	for i := 0; i < q.size; i++ {
		items[i] = q.items[q.slot(i)]
	}
	q.items = items
	q.head = 0
}

// Enqueue adds an item at the tail, growing the backing array when full.
func (q *RingQueue[T]) Enqueue(item T) {
	if q.size == len(q.items) {
		q.grow()
	}
	q.items[q.slot(q.size)] = item
	q.size++
}

// Dequeue removes the item at the head.
// Returns false if the queue is empty.
func (q *RingQueue[T]) Dequeue() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item, true
}

// PeekAt returns the item i positions from the head without removing it.
// Panics if i is out of range.
func (q *RingQueue[T]) PeekAt(i int) T {
	q.checkIndex("PeekAt", i)
	return q.items[q.slot(i)]
}

// RemoveAt removes and returns the item i positions from the head.
// The relative order of the remaining items is preserved.
// Panics if the queue is empty or i is out of range.
func (q *RingQueue[T]) RemoveAt(i int) T {
	q.checkIndex("RemoveAt", i)
	removed := q.items[q.slot(i)]
	// shift everything in front of i one slot towards the tail
	for j := i; j > 0; j-- {
		q.items[q.slot(j)] = q.items[q.slot(j-1)]
	}
	var zero T
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return removed
}

func (q *RingQueue[T]) checkIndex(op string, i int) {
	if q.size == 0 {
		panic(fmt.Sprintf("%s: queue is empty", op))
	}
	if i < 0 || i >= q.size {
		panic(fmt.Sprintf("%s: index %d out of range [0, %d)", op, i, q.size))
	}
}

// Len returns the number of items in the queue.
func (q *RingQueue[T]) Len() int {
	return q.size
}

// Cap returns the capacity of the backing array.
func (q *RingQueue[T]) Cap() int {
	return len(q.items)
}

// Items returns a copy of the queue contents in FIFO order.
func (q *RingQueue[T]) Items() []T {
	out := make([]T, q.size)
	for i := range out {
		out[i] = q.items[q.slot(i)]
	}
	return out
}

func (q *RingQueue[T]) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < q.size; i++ {
		sb.WriteString(fmt.Sprint(q.items[q.slot(i)]))
		if i < q.size-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
