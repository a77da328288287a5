// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package fiber_test

import "testing"

// skipRace skips tests that drive schedulers or backoff-spin on slot
// flags. The race detector tracks per-variable happens-before and cannot
// see the cross-variable memory ordering of the lfq remote queue and the
// atomix outcome flags, producing false positives.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: lock-free paths use cross-variable memory ordering")
}
