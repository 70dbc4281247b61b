// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package qbench provides the linked lock-free queues measured by the
// qbench harness, and the channel handles built on top of them.
//
// The package exists to compare low-level design choices of unbounded
// linked queues under one identical workload:
//
//   - node caching: bounded, unbounded, or no node reuse at all
//   - cache-line padding between producer-written and consumer-written fields
//   - placement of the cache occupancy counters (shared vs consumer-owned)
//   - switching from a single-producer fast path to a multi-producer queue
//
// # Queues
//
// Raw queues are unbounded; Enqueue never blocks and never fails:
//
//	q := qbench.NewSPSC[uint64](qbench.Bounded(128))       // baseline
//	q := qbench.NewSPSC[uint64](qbench.Bounded(1024))      // bigger cache
//	q := qbench.NewSPSCAligned[uint64](qbench.Bounded(128)) // padded
//	q := qbench.NewSPSC[uint64](qbench.Unbounded())        // keep every node
//	q := qbench.NewSPSC[uint64](qbench.NoCache())          // allocate every node
//	q := qbench.NewSPSC2[uint64](qbench.Bounded(128))      // consumer-owned counters
//	q := qbench.NewMPSC[uint64]()                          // CAS tail, many producers
//	q := qbench.NewMPSCAligned[uint64]()
//	q := qbench.NewMPSCPool[uint64](128)                   // CAS tail, recycled nodes
//
// Dequeue returns [ErrWouldBlock] when the queue is empty:
//
//	q.Enqueue(42)
//	v, err := q.Dequeue()
//	if qbench.IsWouldBlock(err) {
//	    // empty, try again later
//	}
//
// SPSC and SPSC2 accept exactly one producer goroutine and one consumer
// goroutine. MPSC accepts any number of producers and one consumer.
// Violating these constraints corrupts the queue.
//
// # Node Cache
//
// The SPSC queues keep consumed nodes on a free list between the consumer's
// retire point and the producer's allocation point. [Bounded] caps the
// number of cached nodes and falls back to allocation beyond the cap,
// [Unbounded] keeps every node, [NoCache] allocates and drops every node.
// Allocs reports how many nodes a queue has allocated so far.
//
// # Channels
//
// Sender and Receiver turn a queue into a channel with a blocking receive
// and a disconnect signal:
//
//	tx, rx := qbench.Build[uint64](qbench.New().Cache(qbench.Bounded(16)))
//	go func() {
//	    defer tx.Close()
//	    for i := range uint64(100) {
//	        tx.Send(i)
//	    }
//	}()
//	for {
//	    v, err := rx.Recv()
//	    if qbench.IsDisconnected(err) {
//	        break
//	    }
//	    use(v)
//	}
//
// # Mode Switching
//
// [NewStream] and [NewStream2] return channels that start in single-producer
// mode and switch to shared mode the first time a Sender is cloned:
//
//	Once   → Single   first Send with no clone
//	Once   → Shared   first Clone
//	Single → Shared   first Clone
//
// The switch is irreversible. The cloning sender installs the shared queue,
// publishes [ModeShared] and leaves an upgrade marker in the single-producer
// queue; the receiver follows the marker. Values sent before the clone are
// received before any value sent after it.
//
// Stream uses the baseline SPSC and the CAS-based MPSC. Stream2 uses the
// consumer-owned-counter SPSC and an MPSC recycling its nodes through a
// lock-free free list.
//
// # Bounded Ring
//
// [Ring] is the fixed-capacity reference point: a ring buffer whose slots
// carry their own full flag, so producer and consumer share no index.
// Enqueue returns [ErrWouldBlock] when full and [Ring.Stalls] counts those
// attempts. It never allocates after construction. [NewRingAligned] gives
// every slot its own cache line.
//
// # Padding
//
// Padding is a layout choice only. Every queue behaves identically with
// [Packed] and [Aligned] layouts; only the placement of fields in memory
// differs.
//
// # Race Detection
//
// Node payloads are plain fields published through atomic successor links.
// The race detector may report false positives on tests that exercise
// cross-variable orderings; such tests skip themselves when [RaceEnabled].
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomics with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause loops,
// [code.hybscloud.com/iox] for semantic errors and backoff, and
// [golang.org/x/sys/cpu] for the platform cache line size.
package qbench
