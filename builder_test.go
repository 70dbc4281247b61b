// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench_test

import (
	"testing"

	"code.hybscloud.com/qbench"
)

// =============================================================================
// Builder - Algorithm Selection
// =============================================================================

func TestBuildQueueSelection(t *testing.T) {
	tests := []struct {
		name  string
		b     func() *qbench.Builder
		check func(q qbench.Queue[int]) bool
	}{
		{"Default", qbench.New, func(q qbench.Queue[int]) bool {
			_, ok := q.(*qbench.SPSC[int, qbench.Packed])
			return ok
		}},
		{"Aligned", func() *qbench.Builder { return qbench.New().Aligned() }, func(q qbench.Queue[int]) bool {
			_, ok := q.(*qbench.SPSC[int, qbench.Aligned])
			return ok
		}},
		{"OwnedCounters", func() *qbench.Builder { return qbench.New().OwnedCounters() }, func(q qbench.Queue[int]) bool {
			_, ok := q.(*qbench.SPSC2[int, qbench.Packed])
			return ok
		}},
		{"OwnedCountersAligned", func() *qbench.Builder { return qbench.New().OwnedCounters().Aligned() }, func(q qbench.Queue[int]) bool {
			_, ok := q.(*qbench.SPSC2[int, qbench.Aligned])
			return ok
		}},
		{"MultiProducerNoCache", func() *qbench.Builder { return qbench.New().Cache(qbench.NoCache()).MultiProducer() }, func(q qbench.Queue[int]) bool {
			_, ok := q.(*qbench.MPSC[int, qbench.Packed])
			return ok
		}},
		{"MultiProducerNoCacheAligned", func() *qbench.Builder { return qbench.New().Cache(qbench.NoCache()).MultiProducer().Aligned() }, func(q qbench.Queue[int]) bool {
			_, ok := q.(*qbench.MPSC[int, qbench.Aligned])
			return ok
		}},
		{"MultiProducerBounded", func() *qbench.Builder { return qbench.New().Cache(qbench.Bounded(8)).MultiProducer() }, func(q qbench.Queue[int]) bool {
			p, ok := q.(*qbench.MPSCPool[int, qbench.Packed])
			return ok && p.Spare() == 8
		}},
		{"MultiProducerDefaultAligned", func() *qbench.Builder { return qbench.New().MultiProducer().Aligned() }, func(q qbench.Queue[int]) bool {
			p, ok := q.(*qbench.MPSCPool[int, qbench.Aligned])
			return ok && p.Spare() == qbench.DefaultCacheBound
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := qbench.BuildQueue[int](tt.b())
			if !tt.check(q) {
				t.Fatalf("BuildQueue: got %T", q)
			}
		})
	}
}

func TestBuilderOptions(t *testing.T) {
	b := qbench.New().Cache(qbench.Unbounded()).Aligned()
	o := b.Options()
	if o.Cache().String() != "unbounded" || !o.Aligned() || o.MultiProducer() || o.OwnedCounters() {
		t.Fatalf("Options: got cache=%v aligned=%v multi=%v owned=%v", o.Cache(), o.Aligned(), o.MultiProducer(), o.OwnedCounters())
	}
	q := qbench.BuildQueue[int](b)
	s, ok := q.(*qbench.SPSC[int, qbench.Aligned])
	if !ok {
		t.Fatalf("BuildQueue: got %T, want *SPSC[int, Aligned]", q)
	}
	for i := range 10 {
		s.Enqueue(i)
	}
	for range 10 {
		s.Dequeue()
	}
	// Unbounded reuse: a second burst of the same size allocates nothing.
	before := s.Allocs()
	for i := range 10 {
		s.Enqueue(i)
	}
	if got := s.Allocs(); got != before {
		t.Fatalf("Allocs after reuse: got %d, want %d", got, before)
	}
}

func TestBuildChannelMode(t *testing.T) {
	_, rx := qbench.Build[int](qbench.New())
	if got := rx.Mode(); got != qbench.ModeSingle {
		t.Fatalf("single-producer Mode: got %v, want single", got)
	}
	_, rx = qbench.Build[int](qbench.New().MultiProducer())
	if got := rx.Mode(); got != qbench.ModeShared {
		t.Fatalf("multi-producer Mode: got %v, want shared", got)
	}
}

// =============================================================================
// Panic Tests for Invalid Builder Configurations
// =============================================================================

func TestBuilderPanicMultiProducerUnbounded(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for MultiProducer with Unbounded cache")
		}
	}()
	qbench.BuildQueue[int](qbench.New().Cache(qbench.Unbounded()).MultiProducer())
}

func TestBuilderPanicMultiProducerOwnedCounters(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for MultiProducer with OwnedCounters")
		}
	}()
	qbench.Build[int](qbench.New().OwnedCounters().MultiProducer())
}
