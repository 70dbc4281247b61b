// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import "code.hybscloud.com/atomix"

// SPSC is an unbounded single-producer single-consumer linked queue with a
// node cache.
//
// The list runs from the oldest cached node to the newest value:
//
//	free … cacheEnd → head → (values) → tail
//
// The consumer pops from head.next and hands the old head back by moving
// cacheEnd forward. The producer reuses nodes from free up to its snapshot
// of cacheEnd before it allocates.
//
// Cache occupancy is tracked by two counters: additions written by the
// consumer and subtractions written by the producer. Both ends read both,
// so the counters are written from two cores.
//
// L selects the layout: Packed or Aligned.
type SPSC[T any, L Layout] struct {
	_ L
	// Consumer fields
	head     *node[T]                // Sentinel; values are read from head.next
	cacheEnd atomix.Pointer[node[T]] // Last node handed back to the cache
	_        L
	// Producer fields
	tail    *node[T]      // Newest node
	free    *node[T]      // Oldest cached node
	freeEnd *node[T]      // Producer's copy of cacheEnd
	allocs  atomix.Uint64 // Written by the producer only
	_       L
	// Cache fields
	bound        uint64 // 0: unbounded
	useCache     bool
	additions    atomix.Uint64 // Written by the consumer
	subtractions atomix.Uint64 // Written by the producer
	_            L
}

// NewSPSC creates an SPSC queue with the Packed layout.
func NewSPSC[T any](c Cache) *SPSC[T, Packed] {
	return newSPSC[T, Packed](c)
}

// NewSPSCAligned creates an SPSC queue with the Aligned layout.
func NewSPSCAligned[T any](c Cache) *SPSC[T, Aligned] {
	return newSPSC[T, Aligned](c)
}

func newSPSC[T any, L Layout](c Cache) *SPSC[T, L] {
	n1, n2 := &node[T]{}, &node[T]{}
	n1.next.StoreRelaxed(n2)
	q := &SPSC[T, L]{
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
func (q *SPSC[T, L]) Enqueue(elem T) {
	n := q.alloc()
	n.value = elem
	n.next.StoreRelaxed(nil)
	q.tail.next.StoreRelease(n) // Publish
	q.tail = n
}

func (q *SPSC[T, L]) alloc() *node[T] {
	if !q.useCache {
		return q.newNode()
	}
	if q.free != q.freeEnd {
		return q.reuse()
	}
	q.freeEnd = q.cacheEnd.LoadAcquire()
	if q.free != q.freeEnd {
		return q.reuse()
	}
	return q.newNode()
}

func (q *SPSC[T, L]) reuse() *node[T] {
	if q.bound > 0 {
		q.subtractions.StoreRelaxed(q.subtractions.LoadRelaxed() + 1)
	}
	n := q.free
	q.free = n.next.LoadAcquire()
	return n
}

func (q *SPSC[T, L]) newNode() *node[T] {
	q.allocs.StoreRelaxed(q.allocs.LoadRelaxed() + 1)
	return &node[T]{}
}

// Dequeue removes and returns the oldest element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC[T, L]) Dequeue() (T, error) {
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
		q.retire(next)
	case q.bound == 0:
		q.cacheEnd.StoreRelease(head)
	default:
		additions := q.additions.LoadRelaxed()
		subtractions := q.subtractions.LoadRelaxed()
		if additions-subtractions < q.bound {
			q.cacheEnd.StoreRelease(head)
			q.additions.StoreRelaxed(additions + 1)
		} else {
			q.retire(next)
		}
	}
	return elem, nil
}

// retire unlinks the old head by pointing cacheEnd past it.
// The producer never walks beyond its copy of cacheEnd, so nothing else
// references the old head afterwards.
func (q *SPSC[T, L]) retire(next *node[T]) {
	q.cacheEnd.LoadRelaxed().next.StoreRelease(next)
}

// Peek returns the oldest element without removing it (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC[T, L]) Peek() (T, error) {
	next := q.head.next.LoadAcquire()
	if next == nil {
		var zero T
		return zero, ErrWouldBlock
	}
	return next.value, nil
}

// Allocs returns the number of nodes allocated so far.
func (q *SPSC[T, L]) Allocs() uint64 {
	return q.allocs.LoadRelaxed()
}

// Aligned reports whether the queue uses the Aligned layout.
func (q *SPSC[T, L]) Aligned() bool {
	return isAligned[L]()
}
