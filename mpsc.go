// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPSC is an unbounded multi-producer single-consumer linked queue.
//
// Producers publish in two steps: a CAS swings tail from the observed last
// node to the new node, then the previous last node is linked to it.
// Between the two steps the queue is inconsistent: tail has moved on but
// the consumer cannot reach the new node yet. Dequeue waits out that
// window with a CPU pause loop; the producer always completes its second
// step.
//
// Delivery order is the order in which tail CASes succeed.
//
// Every Enqueue allocates a node; consumed nodes are left to the garbage
// collector.
//
// L selects the layout: Packed or Aligned.
type MPSC[T any, L Layout] struct {
	_    L
	tail atomix.Pointer[node[T]] // Producers CAS here
	_    L
	head *node[T] // Consumer's sentinel
	_    L
}

// NewMPSC creates an MPSC queue with the Packed layout.
func NewMPSC[T any]() *MPSC[T, Packed] {
	return newMPSC[T, Packed]()
}

// NewMPSCAligned creates an MPSC queue with the Aligned layout.
func NewMPSCAligned[T any]() *MPSC[T, Aligned] {
	return newMPSC[T, Aligned]()
}

func newMPSC[T any, L Layout]() *MPSC[T, L] {
	stub := &node[T]{}
	q := &MPSC[T, L]{head: stub}
	q.tail.StoreRelaxed(stub)
	return q
}

// Enqueue appends elem (multiple producers safe).
func (q *MPSC[T, L]) Enqueue(elem T) {
	n := &node[T]{value: elem}
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
func (q *MPSC[T, L]) Dequeue() (T, error) {
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
	return elem, nil
}

// Aligned reports whether the queue uses the Aligned layout.
func (q *MPSC[T, L]) Aligned() bool {
	return isAligned[L]()
}

// awaitLink spins until a producer that already swung tail past n links
// n to its successor.
func awaitLink[T any](n *node[T]) *node[T] {
	sw := spin.Wait{}
	for {
		if next := n.next.LoadAcquire(); next != nil {
			return next
		}
		sw.Once()
	}
}
