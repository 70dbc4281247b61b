// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import "code.hybscloud.com/atomix"

// message is an item of the single-producer queue of a stream: a value,
// or the marker telling the receiver to continue on the shared queue.
type message[T any] struct {
	value   T
	upgrade bool
}

// stream is a mode-switching flavor.
//
// The state moves Once → Single on the first send and to Shared on the
// first clone, and never leaves Shared. While the state is Once or Single
// only the one Sender touches the send side, so the single-producer queue
// keeps its contract. The first clone installs the shared queue, stores
// Shared with release and enqueues the upgrade marker behind every value
// sent so far. The receiver drains the single queue up to the marker and
// reads the shared queue from then on.
type stream[T any] struct {
	_         pad
	state     atomix.Uint64 // Mode
	_         pad
	single    Queue[message[T]]
	shared    Queue[T] // Installed by the first clone
	newShared func() Queue[T]
	upgraded  bool // Receiver-owned: marker consumed
}

// NewStream creates a mode-switching channel over the baseline SPSC queue
// (Bounded(128), Packed) that switches to the CAS-based MPSC queue on the
// first Clone.
func NewStream[T any]() (*Sender[T], *Receiver[T]) {
	return newChannel[T](&stream[T]{
		single: NewSPSC[message[T]](Bounded(DefaultCacheBound)),
		newShared: func() Queue[T] {
			return NewMPSC[T]()
		},
	})
}

// NewStream2 creates a mode-switching channel over the consumer-owned
// counter SPSC queue (Bounded(128), Aligned) that switches to the pooled
// MPSC queue on the first Clone.
func NewStream2[T any]() (*Sender[T], *Receiver[T]) {
	return newChannel[T](&stream[T]{
		single: NewSPSC2Aligned[message[T]](Bounded(DefaultCacheBound)),
		newShared: func() Queue[T] {
			return NewMPSCPoolAligned[T](DefaultCacheBound)
		},
	})
}

func (s *stream[T]) send(v T) {
	switch Mode(s.state.LoadAcquire()) {
	case ModeShared:
		s.shared.Enqueue(v)
		return
	case ModeOnce:
		s.state.StoreRelease(uint64(ModeSingle))
	}
	s.single.Enqueue(message[T]{value: v})
}

func (s *stream[T]) clone() {
	if Mode(s.state.LoadAcquire()) == ModeShared {
		return
	}
	s.shared = s.newShared()
	s.state.StoreRelease(uint64(ModeShared))
	s.single.Enqueue(message[T]{upgrade: true})
}

func (s *stream[T]) recv() (T, error) {
	if !s.upgraded {
		m, err := s.single.Dequeue()
		if err != nil || !m.upgrade {
			return m.value, err
		}
		if Mode(s.state.LoadAcquire()) != ModeShared {
			panic("qbench: upgrade marker seen before shared mode")
		}
		s.upgraded = true
	}
	return s.shared.Dequeue()
}

func (s *stream[T]) mode() Mode {
	return Mode(s.state.LoadAcquire())
}
