// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench_test

import (
	"testing"

	"code.hybscloud.com/qbench"
)

// =============================================================================
// Node Cache - Allocation Plateau
// =============================================================================

// allocQueue is a queue that counts its node allocations.
type allocQueue interface {
	qbench.Queue[int]
	qbench.Allocator
}

// burstRounds runs rounds of burst enqueues followed by burst dequeues and
// records Allocs after each round.
func burstRounds(t *testing.T, q allocQueue, rounds, burst int) []uint64 {
	t.Helper()
	allocs := make([]uint64, rounds)
	next := 0
	for r := range rounds {
		for range burst {
			q.Enqueue(next)
			next++
		}
		for i := range burst {
			v, err := q.Dequeue()
			if err != nil {
				t.Fatalf("round %d Dequeue(%d): %v", r, i, err)
			}
			if want := next - burst + i; v != want {
				t.Fatalf("round %d: got %d, want %d", r, v, want)
			}
		}
		allocs[r] = q.Allocs()
	}
	return allocs
}

// TestAllocationPlateau verifies that with a node cache the allocation
// count stops growing once enough nodes circulate.
func TestAllocationPlateau(t *testing.T) {
	const (
		bound  = 16
		burst  = 8
		rounds = 500
	)
	tests := []struct {
		name string
		q    allocQueue
	}{
		{"SPSC", qbench.NewSPSC[int](qbench.Bounded(bound))},
		{"SPSCAligned", qbench.NewSPSCAligned[int](qbench.Bounded(bound))},
		{"SPSCUnbounded", qbench.NewSPSC[int](qbench.Unbounded())},
		{"SPSC2", qbench.NewSPSC2[int](qbench.Bounded(bound))},
		{"SPSC2Aligned", qbench.NewSPSC2Aligned[int](qbench.Bounded(bound))},
		{"SPSC2Unbounded", qbench.NewSPSC2[int](qbench.Unbounded())},
		{"MPSCPool", qbench.NewMPSCPool[int](bound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocs := burstRounds(t, tt.q, rounds, burst)
			if allocs[4] != allocs[rounds-1] {
				t.Fatalf("Allocs: round 5 %d, round %d %d; want plateau", allocs[4], rounds, allocs[rounds-1])
			}
			if allocs[rounds-1] > bound+2 {
				t.Fatalf("Allocs: got %d, want <= %d", allocs[rounds-1], bound+2)
			}
		})
	}
}

// TestAllocationNoCache verifies that without a cache every value costs
// one allocation.
func TestAllocationNoCache(t *testing.T) {
	tests := []struct {
		name string
		q    allocQueue
	}{
		{"SPSC", qbench.NewSPSC[int](qbench.NoCache())},
		{"SPSCAligned", qbench.NewSPSCAligned[int](qbench.NoCache())},
		{"SPSC2", qbench.NewSPSC2[int](qbench.NoCache())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocs := burstRounds(t, tt.q, 50, 8)
			if want := uint64(2 + 50*8); allocs[49] != want {
				t.Fatalf("Allocs: got %d, want %d", allocs[49], want)
			}
		})
	}
}

// TestCacheBoundRespected verifies that a burst larger than the bound
// falls back to allocation instead of growing the cache.
func TestCacheBoundRespected(t *testing.T) {
	const bound = 4
	q := qbench.NewSPSC2[int](qbench.Bounded(bound))
	burstRounds(t, q, 20, 32)
	if got := q.Cached(); got > bound {
		t.Fatalf("Cached: got %d, want <= %d", got, bound)
	}
	if got := q.Cached(); got != bound {
		t.Fatalf("Cached after 20 bursts: got %d, want %d", got, bound)
	}
}

// TestBiggerCacheAllocatesLess compares two bounds over the same bursts.
func TestBiggerCacheAllocatesLess(t *testing.T) {
	small := qbench.NewSPSC[int](qbench.Bounded(4))
	big := qbench.NewSPSC[int](qbench.Bounded(64))
	as := burstRounds(t, small, 50, 32)
	ab := burstRounds(t, big, 50, 32)
	if ab[49] >= as[49] {
		t.Fatalf("Allocs: bound 64 %d, bound 4 %d; want fewer with the bigger cache", ab[49], as[49])
	}
}
