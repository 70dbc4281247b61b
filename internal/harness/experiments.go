// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !qbench_minimal

package harness

// Experiments is true when the extended set is compiled in.
const Experiments = true
