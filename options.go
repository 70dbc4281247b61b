// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import "strconv"

// Cache configures node reuse of a linked queue.
//
// The zero value is Bounded(DefaultCacheBound).
type Cache struct {
	kind  cacheKind
	bound int
}

type cacheKind uint8

const (
	cacheDefault cacheKind = iota
	cacheBounded
	cacheUnbounded
	cacheNone
)

// DefaultCacheBound is the node cache bound used when none is configured.
const DefaultCacheBound = 128

// Bounded keeps at most n consumed nodes for reuse.
// Nodes beyond the bound are dropped and later allocations fall back to
// the allocator.
//
// Panics if n < 1.
func Bounded(n int) Cache {
	if n < 1 {
		panic("qbench: cache bound must be >= 1")
	}
	return Cache{kind: cacheBounded, bound: n}
}

// Unbounded keeps every consumed node for reuse.
func Unbounded() Cache {
	return Cache{kind: cacheUnbounded}
}

// NoCache allocates a fresh node for every value and drops it once consumed.
func NoCache() Cache {
	return Cache{kind: cacheNone}
}

// Bound returns the cache bound, 0 if the cache is unbounded or absent.
func (c Cache) Bound() int {
	switch c.kind {
	case cacheDefault:
		return DefaultCacheBound
	case cacheBounded:
		return c.bound
	default:
		return 0
	}
}

// Enabled reports whether nodes are reused at all.
func (c Cache) Enabled() bool {
	return c.kind != cacheNone
}

// String returns "bounded(n)", "unbounded" or "none".
func (c Cache) String() string {
	switch c.kind {
	case cacheUnbounded:
		return "unbounded"
	case cacheNone:
		return "none"
	default:
		return "bounded(" + strconv.Itoa(c.Bound()) + ")"
	}
}

// Options configures queue creation and algorithm selection.
type Options struct {
	cache         Cache
	aligned       bool // Pad producer/consumer fields apart
	multiProducer bool
	ownedCounters bool // Consumer-owned cache counters (SPSC2)
}

// Cache returns the node cache policy.
func (o Options) Cache() Cache { return o.cache }

// Aligned reports whether the padded layout is selected.
func (o Options) Aligned() bool { return o.aligned }

// MultiProducer reports whether an MPSC queue is selected.
func (o Options) MultiProducer() bool { return o.multiProducer }

// OwnedCounters reports whether the SPSC2 variant is selected.
func (o Options) OwnedCounters() bool { return o.ownedCounters }

// Builder creates queues and channels with fluent configuration.
//
// Example:
//
//	// SPSC baseline channel
//	tx, rx := qbench.Build[uint64](qbench.New())
//
//	// Padded SPSC without node reuse
//	tx, rx := qbench.Build[uint64](qbench.New().Cache(qbench.NoCache()).Aligned())
//
//	// CAS-based MPSC channel, clonable
//	tx, rx := qbench.Build[uint64](qbench.New().Cache(qbench.NoCache()).MultiProducer())
type Builder struct {
	opts Options
}

// New creates a builder for a single-producer queue with the default
// bounded node cache and no padding.
func New() *Builder {
	return &Builder{}
}

// Cache sets the node cache policy.
func (b *Builder) Cache(c Cache) *Builder {
	b.opts.cache = c
	return b
}

// Aligned places producer-written and consumer-written fields on separate
// cache lines.
func (b *Builder) Aligned() *Builder {
	b.opts.aligned = true
	return b
}

// MultiProducer selects an MPSC queue. Senders of the resulting channel
// can be cloned.
func (b *Builder) MultiProducer() *Builder {
	b.opts.multiProducer = true
	return b
}

// OwnedCounters selects the SPSC variant whose cache occupancy counter is
// written by the consumer only.
func (b *Builder) OwnedCounters() *Builder {
	b.opts.ownedCounters = true
	return b
}

// Options returns the configured options.
func (b *Builder) Options() Options {
	return b.opts
}

// BuildQueue creates the raw queue selected by the builder.
//
// Algorithm selection:
//
//	single producer                  → SPSC   (shared cache counters)
//	single producer + OwnedCounters  → SPSC2  (consumer-owned counters)
//	MultiProducer + NoCache          → MPSC   (CAS tail, fresh nodes)
//	MultiProducer + Bounded(n)       → MPSCPool (CAS tail, recycled nodes)
//
// Aligned selects the padded layout of the chosen queue.
//
// Panics on MultiProducer combined with Unbounded or OwnedCounters.
func BuildQueue[T any](b *Builder) Queue[T] {
	o := b.opts
	if o.multiProducer {
		if o.ownedCounters {
			panic("qbench: OwnedCounters requires a single producer")
		}
		switch {
		case o.cache.kind == cacheUnbounded:
			panic("qbench: unbounded node cache requires a single producer")
		case o.cache.kind == cacheNone && o.aligned:
			return NewMPSCAligned[T]()
		case o.cache.kind == cacheNone:
			return NewMPSC[T]()
		case o.aligned:
			return NewMPSCPoolAligned[T](o.cache.Bound())
		default:
			return NewMPSCPool[T](o.cache.Bound())
		}
	}
	switch {
	case o.ownedCounters && o.aligned:
		return NewSPSC2Aligned[T](o.cache)
	case o.ownedCounters:
		return NewSPSC2[T](o.cache)
	case o.aligned:
		return NewSPSCAligned[T](o.cache)
	default:
		return NewSPSC[T](o.cache)
	}
}

// Build creates a channel over the queue selected by the builder.
// See BuildQueue for the selection rules.
//
// Senders of a single-producer channel cannot be cloned.
func Build[T any](b *Builder) (*Sender[T], *Receiver[T]) {
	return newChannel[T](&fixed[T]{
		q:     BuildQueue[T](b),
		multi: b.opts.multiProducer,
	})
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
