// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"fmt"
	"regexp"
	"strings"

	"code.hybscloud.com/qbench"
	ring "github.com/randomizedcoder/go-lock-free-ring"
)

// Set groups variants for selection.
type Set uint8

const (
	// SetDefault compares the mode-switching channels and Go's channel.
	SetDefault Set = iota
	// SetExtended covers the raw queue configurations.
	SetExtended
)

// String returns "default" or "extended".
func (s Set) String() string {
	switch s {
	case SetDefault:
		return "default"
	case SetExtended:
		return "extended"
	default:
		return fmt.Sprintf("Set(%d)", uint8(s))
	}
}

// MarshalText encodes the set by name.
func (s Set) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSets parses a selection: "default", "extended" or "all".
func ParseSets(name string) ([]Set, error) {
	switch strings.ToLower(name) {
	case "default":
		return []Set{SetDefault}, nil
	case "extended":
		return []Set{SetExtended}, nil
	case "all":
		return []Set{SetDefault, SetExtended}, nil
	default:
		return nil, fmt.Errorf("harness: unknown set %q (want default, extended or all)", name)
	}
}

// Variant is a named queue configuration under test.
type Variant struct {
	Name string
	Set  Set
	New  func() (Pipe, error)
}

// Variants returns every variant in report order.
func Variants() []Variant {
	vs := []Variant{
		stream("stream", qbench.NewStream[uint64], false),
		stream("shared", qbench.NewStream[uint64], true),
		stream("stream2", qbench.NewStream2[uint64], false),
		stream("stream2 shared", qbench.NewStream2[uint64], true),
		{Name: "go chan", Set: SetDefault, New: func() (Pipe, error) {
			return &goChanPipe{ch: make(chan uint64, qbench.DefaultCacheBound)}, nil
		}},

		built("mpmc baseline", qbench.New().Cache(qbench.NoCache()).MultiProducer()),
		built("mpmc aligned", qbench.New().Cache(qbench.NoCache()).MultiProducer().Aligned()),
		built("mpmc pooled", qbench.New().MultiProducer().Aligned()),

		queue("spsc baseline", func() qbench.Queue[uint64] { return qbench.NewSPSC[uint64](qbench.Bounded(128)) }),
		queue("spsc bigger cache", func() qbench.Queue[uint64] { return qbench.NewSPSC[uint64](qbench.Bounded(1024)) }),
		queue("spsc aligned", func() qbench.Queue[uint64] { return qbench.NewSPSCAligned[uint64](qbench.Bounded(128)) }),
		queue("spsc unbounded", func() qbench.Queue[uint64] { return qbench.NewSPSC[uint64](qbench.Unbounded()) }),
		queue("spsc no cache", func() qbench.Queue[uint64] { return qbench.NewSPSC[uint64](qbench.NoCache()) }),
		queue("spsc unbounded aligned", func() qbench.Queue[uint64] { return qbench.NewSPSCAligned[uint64](qbench.Unbounded()) }),
		queue("spsc no cache aligned", func() qbench.Queue[uint64] { return qbench.NewSPSCAligned[uint64](qbench.NoCache()) }),

		queue("less contention spsc", func() qbench.Queue[uint64] { return qbench.NewSPSC2[uint64](qbench.Bounded(128)) }),
		queue("less contention spsc aligned", func() qbench.Queue[uint64] { return qbench.NewSPSC2Aligned[uint64](qbench.Bounded(128)) }),
	}
	for _, size := range []int{1, 8, 16, 32, 64, 128, 256, 512, 1024} {
		vs = append(vs, queue(fmt.Sprintf("less contention spsc aligned size %d", size), func() qbench.Queue[uint64] {
			return qbench.NewSPSC2Aligned[uint64](qbench.Bounded(size))
		}))
	}
	vs = append(vs,
		extended("slot ring", func() (Pipe, error) {
			return &ringPipe{r: qbench.NewRing[uint64](1024)}, nil
		}),
		extended("slot ring aligned", func() (Pipe, error) {
			return &ringPipe{r: qbench.NewRingAligned[uint64](1024)}, nil
		}),
		extended("sharded ring", func() (Pipe, error) {
			r, err := ring.NewShardedRing(1024, 1)
			if err != nil {
				return nil, fmt.Errorf("harness: sharded ring: %w", err)
			}
			return &shardedPipe{r: r}, nil
		}),
	)
	return vs
}

// Select returns the variants of sets whose name matches filter, in report
// order. A nil filter matches every name.
func Select(sets []Set, filter *regexp.Regexp) []Variant {
	var out []Variant
	for _, v := range Variants() {
		if !hasSet(sets, v.Set) {
			continue
		}
		if filter != nil && !filter.MatchString(v.Name) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func hasSet(sets []Set, s Set) bool {
	for _, x := range sets {
		if x == s {
			return true
		}
	}
	return false
}

// stream is a default-set variant over a mode-switching channel. With
// shared, a leading Clone forces the channel into shared mode first.
func stream(name string, mk func() (*qbench.Sender[uint64], *qbench.Receiver[uint64]), shared bool) Variant {
	return Variant{Name: name, Set: SetDefault, New: func() (Pipe, error) {
		tx, rx := mk()
		p := &channelPipe{tx: tx, rx: rx}
		if shared {
			p.extra = tx.Clone()
		}
		return p, nil
	}}
}

// extended marks a variant as part of the extended set, available only
// when Experiments is true.
func extended(name string, mk func() (Pipe, error)) Variant {
	return Variant{Name: name, Set: SetExtended, New: func() (Pipe, error) {
		if !Experiments {
			return nil, ErrUnsupportedVariant
		}
		return mk()
	}}
}

func built(name string, b *qbench.Builder) Variant {
	return extended(name, func() (Pipe, error) {
		tx, rx := qbench.Build[uint64](b)
		return &channelPipe{tx: tx, rx: rx}, nil
	})
}

func queue(name string, mk func() qbench.Queue[uint64]) Variant {
	return extended(name, func() (Pipe, error) {
		return &queuePipe{q: mk()}, nil
	})
}
