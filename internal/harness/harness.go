// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package harness drives queue variants through one identical
// producer/consumer workload and reports the mean cost per send.
//
// Every run follows the same protocol:
//
//  1. construct the variant
//  2. prime it with two sends and two receives
//  3. start one producer and one consumer goroutine, each locked to its
//     OS thread and optionally pinned to its own core
//  4. start the timer and release both goroutines
//  5. the producer sends 0..2×Count-1, the consumer receives 2×Count values
//     and checks each is one more than the last
//  6. stop the timer once both loops are done
//  7. report elapsed / (2×Count)
//
// Measurements are not corrected for host scheduling or thermal state.
package harness

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/qbench/internal/affinity"
)

// DefaultCount is the default iteration count; a run sends twice as many
// values.
const DefaultCount = 10_000_000

var (
	// ErrUnsupportedVariant indicates the variant is not compiled into this
	// build.
	ErrUnsupportedVariant = errors.New("harness: variant not available in this build")

	// ErrCorrupt indicates the consumer did not receive exactly the values
	// the producer sent, in the order it sent them.
	ErrCorrupt = errors.New("harness: received values do not match sent values")
)

// Config controls a run.
type Config struct {
	// Count is the iteration count. Each run sends 2×Count values.
	Count int
	// Pin binds the producer to Cores[0] and the consumer to Cores[1].
	Pin   bool
	Cores [2]int
}

// DefaultConfig returns DefaultCount iterations, unpinned, cores 0 and 1.
func DefaultConfig() Config {
	return Config{Count: DefaultCount, Cores: [2]int{0, 1}}
}

// Sends returns the number of values a run sends.
func (c Config) Sends() uint64 {
	return 2 * uint64(c.Count)
}

// Pipe is one instance of a variant under test.
//
// Send is called by the producer goroutine only and must not lose values.
// Recv is called by the consumer goroutine only and blocks until a value
// arrives. Close releases the instance after both loops have finished.
type Pipe interface {
	Send(v uint64)
	Recv() uint64
	Close()
}

// Result is the outcome of one run.
type Result struct {
	Name      string        `json:"name"`
	Set       Set           `json:"set"`
	Sends     uint64        `json:"sends"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	NsPerSend float64       `json:"ns_per_send"`
	Pinned    bool          `json:"pinned"`
	Err       error         `json:"-"`
	Error     string        `json:"error,omitempty"`
}

func failed(v Variant, err error) Result {
	return Result{Name: v.Name, Set: v.Set, Err: err, Error: err.Error()}
}

// Run measures v under cfg.
//
// Returns a Result carrying the error if the variant is unavailable, a core
// cannot be pinned, or the values received differ from the values sent.
func Run(cfg Config, v Variant) Result {
	if cfg.Count < 1 {
		return failed(v, fmt.Errorf("harness: count must be >= 1, got %d", cfg.Count))
	}
	p, err := v.New()
	if err != nil {
		return failed(v, err)
	}
	defer p.Close()

	p.Send(0)
	p.Send(0)
	p.Recv()
	p.Recv()

	n := cfg.Sends()
	var (
		wg       sync.WaitGroup
		abort    atomix.Bool
		mismatch error
	)
	start := make(chan struct{})
	ready := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		runtime.LockOSThread()
		if !cfg.Pin {
			defer runtime.UnlockOSThread()
		}
		if !enter(cfg, 0, ready, start, &abort) {
			return
		}
		for i := range n {
			p.Send(i)
		}
	}()
	go func() {
		defer wg.Done()
		runtime.LockOSThread()
		if !cfg.Pin {
			defer runtime.UnlockOSThread()
		}
		if !enter(cfg, 1, ready, start, &abort) {
			return
		}
		// One producer: values arrive as 0, 1, 2, ...
		var first error
		for i := range n {
			if got := p.Recv(); got != i && first == nil {
				first = fmt.Errorf("%w: receive %d got %d", ErrCorrupt, i, got)
			}
		}
		mismatch = first
	}()

	for range 2 {
		if e := <-ready; e != nil && err == nil {
			err = e
		}
	}
	if err != nil {
		abort.StoreRelease(true)
		close(start)
		wg.Wait()
		return failed(v, err)
	}

	t0 := time.Now()
	close(start)
	wg.Wait()
	elapsed := time.Since(t0)

	if mismatch != nil {
		return failed(v, mismatch)
	}
	return Result{
		Name:      v.Name,
		Set:       v.Set,
		Sends:     n,
		Elapsed:   elapsed,
		NsPerSend: float64(elapsed.Nanoseconds()) / float64(n),
		Pinned:    cfg.Pin,
	}
}

// enter pins the calling thread if configured, reports readiness and
// waits for the start signal. It reports false if the run was aborted.
//
// A pinned thread is never unlocked; the runtime discards it when the
// goroutine exits.
func enter(cfg Config, side int, ready chan<- error, start <-chan struct{}, abort *atomix.Bool) bool {
	if cfg.Pin {
		if err := affinity.Pin(cfg.Cores[side]); err != nil {
			ready <- fmt.Errorf("harness: pin %s: %w", sideName[side], err)
			<-start
			return false
		}
	}
	ready <- nil
	<-start
	return !abort.LoadAcquire()
}

var sideName = [2]string{"producer", "consumer"}

// RunAll runs vs in order and returns their results. done, if not nil, is
// called after each run.
func RunAll(cfg Config, vs []Variant, done func(Result)) []Result {
	results := make([]Result, 0, len(vs))
	for _, v := range vs {
		r := Run(cfg, v)
		if done != nil {
			done(r)
		}
		results = append(results, r)
	}
	return results
}
