// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import "code.hybscloud.com/atomix"

// SPSC2 is an SPSC queue whose cache accounting belongs to the consumer.
//
// A node joins the cache by being marked cached when the consumer retires
// it while fewer than bound nodes are marked. Marked nodes circulate
// forever; unmarked nodes are dropped when consumed. Only the consumer
// writes the marked count. The producer reads it relaxed and skips the
// cache probe while nothing is marked; a stale count only costs a cache
// miss.
//
// L selects the layout: Packed or Aligned.
type SPSC2[T any, L Layout] struct {
	_ L
	// Consumer fields
	head        *node[T]
	cacheEnd    atomix.Pointer[node[T]]
	bound       uint64        // 0: unbounded
	cachedNodes atomix.Uint64 // Written by the consumer only
	_           L
	// Producer fields
	tail     *node[T]
	free     *node[T]
	freeEnd  *node[T]
	allocs   atomix.Uint64
	useCache bool
	_        L
}

// NewSPSC2 creates a consumer-owned-counter SPSC queue with the Packed
// layout.
func NewSPSC2[T any](c Cache) *SPSC2[T, Packed] {
	return newSPSC2[T, Packed](c)
}

// NewSPSC2Aligned creates a consumer-owned-counter SPSC queue with the
// Aligned layout.
func NewSPSC2Aligned[T any](c Cache) *SPSC2[T, Aligned] {
	return newSPSC2[T, Aligned](c)
}

func newSPSC2[T any, L Layout](c Cache) *SPSC2[T, L] {
	n1, n2 := &node[T]{}, &node[T]{}
	n1.next.StoreRelaxed(n2)
	q := &SPSC2[T, L]{
		head:     n2,
		tail:     n2,
		free:     n1,
		freeEnd:  n1,
		bound:    uint64(c.Bound()),
		useCache: c.Enabled(),
	}
	q.cacheEnd.StoreRelaxed(n1)
	q.allocs.StoreRelaxed(2)
	return q
}

// Enqueue appends elem (producer only).
func (q *SPSC2[T, L]) Enqueue(elem T) {
	n := q.alloc()
	n.value = elem
	n.next.StoreRelaxed(nil)
	q.tail.next.StoreRelease(n)
	q.tail = n
}

func (q *SPSC2[T, L]) alloc() *node[T] {
	if !q.useCache {
		return q.newNode()
	}
	if q.free != q.freeEnd {
		return q.reuse()
	}
	if q.bound > 0 && q.cachedNodes.LoadRelaxed() == 0 {
		return q.newNode()
	}
	q.freeEnd = q.cacheEnd.LoadAcquire()
	if q.free != q.freeEnd {
		return q.reuse()
	}
	return q.newNode()
}

func (q *SPSC2[T, L]) reuse() *node[T] {
	n := q.free
	q.free = n.next.LoadAcquire()
	return n
}

func (q *SPSC2[T, L]) newNode() *node[T] {
	q.allocs.StoreRelaxed(q.allocs.LoadRelaxed() + 1)
	return &node[T]{}
}

// Dequeue removes and returns the oldest element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC2[T, L]) Dequeue() (T, error) {
	head := q.head
	next := head.next.LoadAcquire()
	if next == nil {
		var zero T
		return zero, ErrWouldBlock
	}

	elem := next.value
	var zero T
	next.value = zero
	q.head = next

	switch {
	case !q.useCache:
		q.cacheEnd.LoadRelaxed().next.StoreRelease(next)
	case q.bound == 0:
		q.cacheEnd.StoreRelease(head)
	default:
		if !head.cached {
			if cached := q.cachedNodes.LoadRelaxed(); cached < q.bound {
				head.cached = true
				q.cachedNodes.StoreRelaxed(cached + 1)
			}
		}
		if head.cached {
			q.cacheEnd.StoreRelease(head)
		} else {
			q.cacheEnd.LoadRelaxed().next.StoreRelease(next)
		}
	}
	return elem, nil
}

// Peek returns the oldest element without removing it (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC2[T, L]) Peek() (T, error) {
	next := q.head.next.LoadAcquire()
	if next == nil {
		var zero T
		return zero, ErrWouldBlock
	}
	return next.value, nil
}

// Allocs returns the number of nodes allocated so far.
func (q *SPSC2[T, L]) Allocs() uint64 {
	return q.allocs.LoadRelaxed()
}

// Cached returns the number of nodes marked as cached.
// Exact on the consumer goroutine, a snapshot elsewhere.
func (q *SPSC2[T, L]) Cached() int {
	return int(q.cachedNodes.LoadRelaxed())
}

// Aligned reports whether the queue uses the Aligned layout.
func (q *SPSC2[T, L]) Aligned() bool {
	return isAligned[L]()
}
