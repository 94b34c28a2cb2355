package spatial

import (
	"runtime"
	"sync/atomic"
)

// CacheLineSize is the typical CPU cache line size (64 bytes on x86-64)
const CacheLineSize = 64

// Padding ensures variables don't share cache lines (prevents false sharing)
type Padding [CacheLineSize]byte

type slot[T any] struct {
	seq  atomic.Uint64
	item T
}

// LockFreeQueue is a bounded MPSC ring buffer (Vyukov). Each slot carries a
// sequence number so a consumer never reads a slot a producer has claimed
// but not yet written.
//
// Memory Layout (prevents false sharing):
// [Padding][head][Padding][tail][Padding][slots...]
type LockFreeQueue[T any] struct {
	_pad0 Padding

	head  atomic.Uint64 // Next position to claim (producers)
	_pad1 Padding

	tail  atomic.Uint64 // Next position to read (single consumer)
	_pad2 Padding

	mask  uint64
	slots []slot[T]
}

// NewLockFreeQueue creates a new queue. capacity is rounded up to a power of 2.
func NewLockFreeQueue[T any](capacity int) *LockFreeQueue[T] {
	n := 1
	for n < capacity {
		n <<= 1
	}

	q := &LockFreeQueue[T]{
		mask:  uint64(n - 1),
		slots: make([]slot[T], n),
	}
	for i := range q.slots {
		q.slots[i].seq.Store(uint64(i))
	}
	return q
}

// TryPush adds an item. It returns false when the queue is full.
// Safe for multiple concurrent producers.
func (q *LockFreeQueue[T]) TryPush(item T) bool {
	for {
		pos := q.head.Load()
		s := &q.slots[pos&q.mask]
		seq := s.seq.Load()

		switch {
		case seq == pos:
			if q.head.CompareAndSwap(pos, pos+1) {
				s.item = item
				s.seq.Store(pos + 1) // publish
				return true
			}
		case seq < pos:
			return false // full
		}
		runtime.Gosched()
	}
}

// TryPop removes an item. Only one goroutine may consume.
func (q *LockFreeQueue[T]) TryPop() (T, bool) {
	var zero T

	pos := q.tail.Load()
	s := &q.slots[pos&q.mask]
	if s.seq.Load() != pos+1 {
		return zero, false // empty, or claimed but not yet written
	}

	item := s.item
	s.item = zero
	s.seq.Store(pos + q.mask + 1) // free for the next lap
	q.tail.Store(pos + 1)
	return item, true
}

// Len returns the approximate number of items in the queue
func (q *LockFreeQueue[T]) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if head < tail {
		return 0
	}
	return int(head - tail)
}

// Cap returns the queue capacity
func (q *LockFreeQueue[T]) Cap() int {
	return int(q.mask + 1)
}

// DrainTo reads available items into buf and returns how many it wrote.
func (q *LockFreeQueue[T]) DrainTo(buf []T) int {
	count := 0
	for count < len(buf) {
		item, ok := q.TryPop()
		if !ok {
			break
		}
		buf[count] = item
		count++
	}
	return count
}
