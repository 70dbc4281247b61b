// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Supported reports whether Pin can bind threads on this platform.
const Supported = true

// maxCPU is the number of cores a unix.CPUSet can describe (CPU_SETSIZE).
const maxCPU = 1024

// Pin binds the calling OS thread to cpu via sched_setaffinity(2).
func Pin(cpu int) error {
	var set unix.CPUSet
	if cpu < 0 || cpu >= maxCPU {
		return ErrInvalidCPU
	}
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: pin to cpu %d: %w", cpu, err)
	}
	return nil
}

// Restore binds the calling OS thread to the set of cpus.
func Restore(cpus []int) error {
	var set unix.CPUSet
	set.Zero()
	for _, cpu := range cpus {
		if cpu < 0 || cpu >= maxCPU {
			return ErrInvalidCPU
		}
		set.Set(cpu)
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: restore: %w", err)
	}
	return nil
}

// Current returns the cores the calling thread may run on.
func Current() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("affinity: %w", err)
	}
	cpus := make([]int, 0, set.Count())
	for i := 0; i < maxCPU; i++ {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}
