// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// freeList is a bounded lock-free stock of spare nodes.
//
// One goroutine puts nodes back; any number of goroutines take them. Each
// slot carries a sequence number: a slot at position p is free for put when
// seq == p and holds a node for take when seq == p+1. Takers claim
// positions with CAS on head.
//
// Memory: n slots (one cache line each)
type freeList[T any] struct {
	_        pad
	head     atomix.Uint64 // Takers CAS here
	_        pad
	tail     atomix.Uint64 // Putter writes here
	_        pad
	slots    []freeSlot[T]
	mask     uint64
	capacity uint64
}

type freeSlot[T any] struct {
	seq  atomix.Uint64
	node *node[T]
	_    [CacheLineSize - 16]byte
}

// newFreeList creates a free list holding up to capacity nodes, rounded
// up to a power of 2.
func newFreeList[T any](capacity int) *freeList[T] {
	n := uint64(roundToPow2(capacity))
	f := &freeList[T]{
		slots:    make([]freeSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := uint64(0); i < n; i++ {
		f.slots[i].seq.StoreRelaxed(i)
	}
	return f
}

// put stores n for reuse (single putter only).
// Reports false if the list is full; the caller drops n.
func (f *freeList[T]) put(n *node[T]) bool {
	tail := f.tail.LoadRelaxed()
	slot := &f.slots[tail&f.mask]
	if slot.seq.LoadAcquire() != tail {
		return false
	}

	slot.node = n
	slot.seq.StoreRelease(tail + 1)
	f.tail.StoreRelease(tail + 1)
	return true
}

// take removes a spare node (multiple takers safe).
// Returns nil if the list is empty.
func (f *freeList[T]) take() *node[T] {
	sw := spin.Wait{}
	for {
		head := f.head.LoadAcquire()
		tail := f.tail.LoadAcquire()
		if head >= tail {
			return nil
		}

		slot := &f.slots[head&f.mask]
		seq := slot.seq.LoadAcquire()
		if seq == head+1 {
			if f.head.CompareAndSwapAcqRel(head, head+1) {
				n := slot.node
				slot.node = nil
				slot.seq.StoreRelease(head + f.capacity)
				return n
			}
		} else if seq < head+1 {
			return nil
		}
		sw.Once()
	}
}

// size returns the number of nodes the list can hold.
func (f *freeList[T]) size() int {
	return int(f.capacity)
}
