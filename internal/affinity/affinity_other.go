// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package affinity

// Supported reports whether Pin can bind threads on this platform.
const Supported = false

// Pin returns ErrUnsupported.
func Pin(cpu int) error {
	if cpu < 0 {
		return ErrInvalidCPU
	}
	return ErrUnsupported
}

// Current returns ErrUnsupported.
func Current() ([]int, error) {
	return nil, ErrUnsupported
}

// Restore returns ErrUnsupported.
func Restore(cpus []int) error {
	return ErrUnsupported
}
