// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qbench

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the cache line size the padding types are built for.
const CacheLineSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// pad is one cache line of padding.
type pad cpu.CacheLinePad

// Padded keeps Value on cache lines no other field touches.
//
// Go gives no control over alignment beyond the word size, so Value is
// surrounded by a full line on each side.
type Padded[T any] struct {
	_     pad
	Value T
	_     pad
}

// Layout selects how a queue places its producer, consumer and cache fields.
type Layout interface {
	Packed | Aligned
}

// Packed places producer-written and consumer-written fields next to each
// other.
type Packed struct{}

// Aligned separates producer-written and consumer-written fields by a cache
// line.
type Aligned struct {
	_ pad
}

// isAligned reports whether L is the Aligned layout.
func isAligned[L Layout]() bool {
	var l L
	_, ok := any(l).(Aligned)
	return ok
}
