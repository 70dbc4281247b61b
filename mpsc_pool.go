// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPSCPool is an MPSC queue that recycles its nodes through a bounded
// lock-free free list.
//
// The publish protocol is the one of MPSC. The consumer puts every old
// sentinel on the free list and producers take from it before allocating.
// A recycled node can become tail again while a slow producer still holds
// it as its CAS expectation; the CAS then succeeds against the node that
// really is the last one, so reuse does not break linking.
//
// L selects the layout: Packed or Aligned.
type MPSCPool[T any, L Layout] struct {
	_      L
	tail   atomix.Pointer[node[T]]
	_      L
	head   *node[T]
	_      L
	allocs atomix.Uint64 // Free-list misses
	_      L
	free   *freeList[T]
}

// NewMPSCPool creates a pooled MPSC queue keeping up to bound spare nodes,
// with the Packed layout.
//
// Panics if bound < 1.
func NewMPSCPool[T any](bound int) *MPSCPool[T, Packed] {
	return newMPSCPool[T, Packed](bound)
}

// NewMPSCPoolAligned creates a pooled MPSC queue keeping up to bound spare
// nodes, with the Aligned layout.
//
// Panics if bound < 1.
func NewMPSCPoolAligned[T any](bound int) *MPSCPool[T, Aligned] {
	return newMPSCPool[T, Aligned](bound)
}

func newMPSCPool[T any, L Layout](bound int) *MPSCPool[T, L] {
	if bound < 1 {
		panic("qbench: cache bound must be >= 1")
	}
	stub := &node[T]{}
	q := &MPSCPool[T, L]{
		head: stub,
		free: newFreeList[T](bound),
	}
	q.tail.StoreRelaxed(stub)
	q.allocs.StoreRelaxed(1)
	return q
}

// Enqueue appends elem (multiple producers safe).
func (q *MPSCPool[T, L]) Enqueue(elem T) {
	n := q.free.take()
	if n == nil {
		q.allocs.AddAcqRel(1)
		n = &node[T]{}
	}
	n.value = elem
	n.next.StoreRelaxed(nil)

	sw := spin.Wait{}
	for {
		prev := q.tail.LoadAcquire()
		if q.tail.CompareAndSwapAcqRel(prev, n) {
			prev.next.StoreRelease(n)
			return
		}
		sw.Once()
	}
}

// Dequeue removes and returns the oldest element (single consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MPSCPool[T, L]) Dequeue() (T, error) {
	head := q.head
	next := head.next.LoadAcquire()
	if next == nil {
		if q.tail.LoadAcquire() == head {
			var zero T
			return zero, ErrWouldBlock
		}
		next = awaitLink(head)
	}

	q.head = next
	elem := next.value
	var zero T
	next.value = zero
	q.free.put(head)
	return elem, nil
}

// Allocs returns the number of nodes allocated so far.
func (q *MPSCPool[T, L]) Allocs() uint64 {
	return q.allocs.LoadAcquire()
}

// Spare returns the capacity of the free list.
func (q *MPSCPool[T, L]) Spare() int {
	return q.free.size()
}

// Aligned reports whether the queue uses the Aligned layout.
func (q *MPSCPool[T, L]) Aligned() bool {
	return isAligned[L]()
}
