// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// SpinLock is a short-hold busy-wait lock. It protects small critical
// sections that never suspend; the suspend primitives release it before
// parking. Holding a SpinLock across a suspension point is a contract
// violation.
//
// The zero value is an unlocked SpinLock. A SpinLock must not be copied
// after first use.
type SpinLock struct {
	state atomix.Uint32
}

// Lock acquires the lock, waiting with adaptive backoff under contention.
func (l *SpinLock) Lock() {
	var bo iox.Backoff
	for !l.state.CompareAndSwap(0, 1) {
		bo.Wait()
	}
}

// TryLock acquires the lock without waiting. Reports whether it succeeded.
func (l *SpinLock) TryLock() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Unlock releases the lock. The lock must be held.
func (l *SpinLock) Unlock() {
	l.state.Store(0)
}
