// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package affinity binds the calling OS thread to one CPU core.
//
// Callers lock their goroutine to its thread first:
//
//	runtime.LockOSThread()
//	defer runtime.UnlockOSThread()
//	if err := affinity.Pin(2); err != nil {
//	    // run unpinned
//	}
package affinity

import "errors"

// ErrUnsupported indicates the platform cannot pin threads.
var ErrUnsupported = errors.New("affinity: thread pinning not supported on this platform")

// ErrInvalidCPU indicates a negative or out-of-range core index.
var ErrInvalidCPU = errors.New("affinity: invalid cpu index")
