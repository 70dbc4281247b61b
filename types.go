// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import "code.hybscloud.com/atomix"

// Queue is the combined producer-consumer interface of the linked queues.
//
// Enqueue never blocks and never fails: the queues are unbounded and grow by
// allocating or reusing nodes. Dequeue is non-blocking and returns
// ErrWouldBlock when no value is available.
//
// Thread safety depends on the queue type:
//   - SPSC, SPSC2: one producer goroutine, one consumer goroutine
//   - MPSC, MPSCPool: any number of producers, one consumer goroutine
type Queue[T any] interface {
	// Enqueue appends elem to the queue.
	Enqueue(elem T)

	// Dequeue removes and returns the oldest element.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)
}

// Allocator is implemented by queues that count node allocations.
//
// The count includes the sentinel nodes created by the constructor. With a
// bounded or unbounded node cache the count stops growing once enough nodes
// circulate; without a cache it grows with every Enqueue.
type Allocator interface {
	Allocs() uint64
}

// node is one link of a queue.
//
// A node is either on the live list, on a cache free list, or unreachable.
// next is written by the one goroutine that appended the node's successor.
type node[T any] struct {
	next   atomix.Pointer[node[T]]
	value  T
	cached bool // SPSC2: node counts against the cache bound; consumer-owned
}

// noCopy may be added to structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock() {}

// Unlock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Unlock() {}

// Mode is the producer mode of a channel.
type Mode int32

const (
	// ModeOnce is the initial mode: nothing sent, no clone made.
	ModeOnce Mode = iota
	// ModeSingle means exactly one Sender exists and it has sent.
	ModeSingle
	// ModeShared means a Sender has been cloned. It is never left.
	ModeShared
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeOnce:
		return "once"
	case ModeSingle:
		return "single"
	case ModeShared:
		return "shared"
	default:
		return "unknown"
	}
}
