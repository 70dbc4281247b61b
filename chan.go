// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import (
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// recvSpins is how many pause rounds Recv spends on an empty queue before
// it falls back to iox.Backoff.
const recvSpins = 128

// flavor is the queue machinery behind a channel.
type flavor[T any] interface {
	// send appends v. Called by one Sender at a time unless the flavor
	// is in shared mode.
	send(v T)
	// clone prepares for one more Sender. Called before the new Sender
	// exists.
	clone()
	// recv is a non-blocking receive (receiver only).
	recv() (T, error)
	mode() Mode
}

// channel is the state shared by all handles of one channel.
type channel[T any] struct {
	senders Padded[atomix.Int64]
	hungUp  Padded[atomix.Bool] // Every Sender closed
	dropped Padded[atomix.Bool] // Receiver closed
	flavor  flavor[T]
}

func newChannel[T any](f flavor[T]) (*Sender[T], *Receiver[T]) {
	c := &channel[T]{flavor: f}
	c.senders.Value.StoreRelaxed(1)
	return &Sender[T]{c: c}, &Receiver[T]{c: c}
}

// Sender is the producer handle of a channel.
//
// A Sender is used by one goroutine at a time. Further producers get their
// own handle through Clone, where the channel allows it.
// Must not be copied after first use.
type Sender[T any] struct {
	_      noCopy
	c      *channel[T]
	closed bool
}

// Send appends v to the channel. It never blocks.
// Returns ErrDisconnected if the Receiver has been closed.
//
// Panics if the Sender has been closed.
func (s *Sender[T]) Send(v T) error {
	if s.closed {
		panic("qbench: Send on closed Sender")
	}
	if s.c.dropped.Value.LoadAcquire() {
		return ErrDisconnected
	}
	s.c.flavor.send(v)
	return nil
}

// Clone returns a new Sender for the same channel.
//
// On a mode-switching channel the first Clone switches the channel to
// shared mode before the new Sender is returned.
//
// Panics if the Sender has been closed or the channel has a single-producer
// queue.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed {
		panic("qbench: Clone of closed Sender")
	}
	s.c.flavor.clone()
	s.c.senders.Value.AddAcqRel(1)
	return &Sender[T]{c: s.c}
}

// Close releases the Sender. Closing the last Sender disconnects the
// channel: the Receiver drains what was sent, then gets ErrDisconnected.
// Close is idempotent.
func (s *Sender[T]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.c.senders.Value.AddAcqRel(-1) == 0 {
		s.c.hungUp.Value.StoreRelease(true)
	}
}

// Receiver is the consumer handle of a channel. There is exactly one per
// channel, used by one goroutine. Must not be copied after first use.
type Receiver[T any] struct {
	_      noCopy
	c      *channel[T]
	closed bool
}

// TryRecv removes and returns the next value without blocking.
// Returns ErrWouldBlock if nothing is available and ErrDisconnected if
// nothing is available and every Sender has been closed.
func (r *Receiver[T]) TryRecv() (T, error) {
	v, err := r.c.flavor.recv()
	if err == nil {
		return v, nil
	}
	if !r.c.hungUp.Value.LoadAcquire() {
		return v, ErrWouldBlock
	}
	// Every send happened before the last Close; look once more.
	v, err = r.c.flavor.recv()
	if err != nil {
		return v, ErrDisconnected
	}
	return v, nil
}

// Recv blocks until a value is available and returns it.
// Returns ErrDisconnected once every Sender has been closed and every
// value has been received.
func (r *Receiver[T]) Recv() (T, error) {
	return r.wait(time.Time{})
}

// RecvDeadline is Recv with a deadline.
// Returns ErrTimeout if no value arrived before deadline.
func (r *Receiver[T]) RecvDeadline(deadline time.Time) (T, error) {
	return r.wait(deadline)
}

func (r *Receiver[T]) wait(deadline time.Time) (T, error) {
	if r.closed {
		panic("qbench: receive on closed Receiver")
	}
	sw := spin.Wait{}
	backoff := iox.Backoff{}
	for i := 0; ; i++ {
		v, err := r.TryRecv()
		if !IsWouldBlock(err) {
			return v, err
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return v, ErrTimeout
		}
		if i < recvSpins {
			sw.Once()
			continue
		}
		backoff.Wait()
	}
}

// Mode returns the producer mode of the channel.
func (r *Receiver[T]) Mode() Mode {
	return r.c.flavor.mode()
}

// Close releases the Receiver. Later Sends return ErrDisconnected and
// values still queued are dropped. Close is idempotent.
func (r *Receiver[T]) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.c.dropped.Value.StoreRelease(true)
	for {
		if _, err := r.c.flavor.recv(); err != nil {
			return
		}
	}
}

// fixed is the flavor of a channel over one queue for its whole life.
type fixed[T any] struct {
	q     Queue[T]
	multi bool
}

func (f *fixed[T]) send(v T) {
	f.q.Enqueue(v)
}

func (f *fixed[T]) clone() {
	if !f.multi {
		panic("qbench: Clone of a single-producer channel")
	}
}

func (f *fixed[T]) recv() (T, error) {
	return f.q.Dequeue()
}

func (f *fixed[T]) mode() Mode {
	if f.multi {
		return ModeShared
	}
	return ModeSingle
}
