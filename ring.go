// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import "code.hybscloud.com/atomix"

// Ring is a bounded single-producer single-consumer queue.
//
// Producer and consumer share no index. Each slot carries a full flag: the
// producer writes a value into an empty slot and sets the flag with release
// order; the consumer takes the value from a full slot and clears the flag.
// Both sides keep their position privately, so the only cache lines that
// move between cores are the slots themselves.
//
// L selects the slot layout. With Packed, adjacent slots share cache lines
// and the two sides contend whenever they work near each other. With
// Aligned, every slot owns its line.
//
// Memory: O(capacity), no allocation after construction
type Ring[T any, L Layout] struct {
	_ pad
	// Consumer fields
	head uint64
	_    pad
	// Producer fields
	tail   uint64
	stalls atomix.Uint64 // Enqueue attempts on a full ring
	_      pad
	slots  []ringSlot[T, L]
	mask   uint64
}

type ringSlot[T any, L Layout] struct {
	full  atomix.Bool
	value T
	_     L
}

// NewRing creates a ring with the Packed layout holding up to capacity
// elements. Capacity rounds up to the next power of 2.
//
// Panics if capacity < 2.
func NewRing[T any](capacity int) *Ring[T, Packed] {
	return newRing[T, Packed](capacity)
}

// NewRingAligned creates a ring with the Aligned layout holding up to
// capacity elements. Capacity rounds up to the next power of 2.
//
// Panics if capacity < 2.
func NewRingAligned[T any](capacity int) *Ring[T, Aligned] {
	return newRing[T, Aligned](capacity)
}

func newRing[T any, L Layout](capacity int) *Ring[T, L] {
	if capacity < 2 {
		panic("qbench: capacity must be >= 2")
	}
	n := uint64(roundToPow2(capacity))
	return &Ring[T, L]{
		slots: make([]ringSlot[T, L], n),
		mask:  n - 1,
	}
}

// Enqueue adds elem (producer only).
// Returns ErrWouldBlock if the ring is full.
func (q *Ring[T, L]) Enqueue(elem T) error {
	slot := &q.slots[q.tail&q.mask]
	if slot.full.LoadAcquire() {
		q.stalls.StoreRelaxed(q.stalls.LoadRelaxed() + 1)
		return ErrWouldBlock
	}
	slot.value = elem
	slot.full.StoreRelease(true)
	q.tail++
	return nil
}

// Dequeue removes and returns the oldest element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the ring is empty.
func (q *Ring[T, L]) Dequeue() (T, error) {
	slot := &q.slots[q.head&q.mask]
	var zero T
	if !slot.full.LoadAcquire() {
		return zero, ErrWouldBlock
	}
	elem := slot.value
	slot.value = zero
	slot.full.StoreRelease(false)
	q.head++
	return elem, nil
}

// Cap returns the ring capacity.
func (q *Ring[T, L]) Cap() int {
	return int(q.mask + 1)
}

// Stalls returns how many Enqueue calls found the ring full.
func (q *Ring[T, L]) Stalls() uint64 {
	return q.stalls.LoadRelaxed()
}

// Aligned reports whether the ring uses the Aligned layout.
func (q *Ring[T, L]) Aligned() bool {
	return isAligned[L]()
}
