// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/qbench"
)

type streamCase struct {
	name string
	new  func() (*qbench.Sender[uint64], *qbench.Receiver[uint64])
}

var streams = []streamCase{
	{"Stream", qbench.NewStream[uint64]},
	{"Stream2", qbench.NewStream2[uint64]},
}

// =============================================================================
// Mode Switching
// =============================================================================

func TestStreamModeTransitions(t *testing.T) {
	for _, sc := range streams {
		t.Run(sc.name, func(t *testing.T) {
			tx, rx := sc.new()
			if got := rx.Mode(); got != qbench.ModeOnce {
				t.Fatalf("Mode before send: got %v, want once", got)
			}

			tx.Send(1)
			if got := rx.Mode(); got != qbench.ModeSingle {
				t.Fatalf("Mode after send: got %v, want single", got)
			}
			tx.Send(2)
			if got := rx.Mode(); got != qbench.ModeSingle {
				t.Fatalf("Mode after second send: got %v, want single", got)
			}

			tx2 := tx.Clone()
			if got := rx.Mode(); got != qbench.ModeShared {
				t.Fatalf("Mode after clone: got %v, want shared", got)
			}
			tx3 := tx2.Clone()
			tx3.Close()
			if got := rx.Mode(); got != qbench.ModeShared {
				t.Fatalf("Mode after second clone: got %v, want shared", got)
			}

			tx.Send(3)
			tx2.Send(4)
			for want := uint64(1); want <= 4; want++ {
				v, err := rx.Recv()
				if err != nil {
					t.Fatalf("Recv: %v", err)
				}
				if v != want {
					t.Fatalf("Recv: got %d, want %d", v, want)
				}
			}
		})
	}
}

// TestStreamCloneBeforeSend verifies Once goes straight to Shared.
func TestStreamCloneBeforeSend(t *testing.T) {
	for _, sc := range streams {
		t.Run(sc.name, func(t *testing.T) {
			tx, rx := sc.new()
			tx2 := tx.Clone()
			if got := rx.Mode(); got != qbench.ModeShared {
				t.Fatalf("Mode after clone: got %v, want shared", got)
			}
			tx2.Send(7)
			tx.Send(8)
			for _, want := range []uint64{7, 8} {
				v, err := rx.Recv()
				if err != nil || v != want {
					t.Fatalf("Recv: got (%d, %v), want (%d, nil)", v, err, want)
				}
			}
		})
	}
}

// TestStreamCloneConcurrent sends one value, clones, sends one more from
// the clone, then runs both Senders concurrently. The receiver must get
// all N+2 values, in order per Sender, and observe shared mode before the
// first value sent after the clone.
//
// Values are encoded as sender<<32 | sequence: sender 0 is the first Sender,
// sender 1 the clone.
func TestStreamCloneConcurrent(t *testing.T) {
	if qbench.RaceEnabled {
		t.Skip("skip: stress test under race detector")
	}
	n := stressItems(t, 100_000)

	for _, sc := range streams {
		t.Run(sc.name, func(t *testing.T) {
			tx, rx := sc.new()
			tx.Send(0)
			tx2 := tx.Clone()
			tx2.Send(1 << 32)

			var wg sync.WaitGroup
			send := func(s *qbench.Sender[uint64], id uint64, count int) {
				defer wg.Done()
				defer s.Close()
				for i := 1; i <= count; i++ {
					if err := s.Send(id<<32 | uint64(i)); err != nil {
						t.Errorf("sender %d: Send: %v", id, err)
						return
					}
				}
			}
			wg.Add(2)
			go send(tx, 0, n/2)
			go send(tx2, 1, n-n/2)

			var next [2]uint64
			received := 0
			for {
				v, err := rx.RecvDeadline(time.Now().Add(10 * time.Second))
				if qbench.IsDisconnected(err) {
					break
				}
				if err != nil {
					t.Fatalf("Recv after %d values: %v", received, err)
				}
				id, seq := v>>32, v&0xFFFFFFFF
				if id > 1 {
					t.Fatalf("value out of range: %#x", v)
				}
				if seq != next[id] {
					t.Fatalf("sender %d: got seq %d, want %d", id, seq, next[id])
				}
				if !(id == 0 && seq == 0) && rx.Mode() != qbench.ModeShared {
					t.Fatalf("value %#x received before shared mode was visible", v)
				}
				next[id]++
				received++
			}
			wg.Wait()

			if received != n+2 {
				t.Fatalf("received: got %d, want %d", received, n+2)
			}
			if rx.Mode() != qbench.ModeShared {
				t.Fatalf("Mode: got %v, want shared", rx.Mode())
			}
		})
	}
}

// TestStreamSingleModeStress runs a never-cloned stream from another
// goroutine and checks FIFO delivery.
func TestStreamSingleModeStress(t *testing.T) {
	if qbench.RaceEnabled {
		t.Skip("skip: stress test under race detector")
	}
	n := stressItems(t, 200_000)

	for _, sc := range streams {
		t.Run(sc.name, func(t *testing.T) {
			tx, rx := sc.new()
			go func() {
				defer tx.Close()
				for i := range uint64(n) {
					tx.Send(i)
				}
			}()
			var want uint64
			for {
				v, err := rx.RecvDeadline(time.Now().Add(10 * time.Second))
				if qbench.IsDisconnected(err) {
					break
				}
				if err != nil {
					t.Fatalf("Recv: %v", err)
				}
				if v != want {
					t.Fatalf("Recv: got %d, want %d", v, want)
				}
				want++
			}
			if want != uint64(n) {
				t.Fatalf("received: got %d, want %d", want, n)
			}
			if rx.Mode() != qbench.ModeSingle {
				t.Fatalf("Mode: got %v, want single", rx.Mode())
			}
		})
	}
}
