// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

// Locker is the lock surface consumed by [Cond]: a lock acquired and
// released on behalf of a specific fiber.
type Locker interface {
	Lock(self *Fiber)
	Unlock(self *Fiber)
}

// Mutex is a fiber-blocking mutual exclusion lock with FIFO handoff:
// Unlock transfers ownership directly to the longest-waiting fiber.
//
// The zero value is an unlocked Mutex. A Mutex must not be copied after
// first use.
type Mutex struct {
	splk    SpinLock
	owner   *Fiber
	waiters waitList
}

// Lock acquires the mutex for self, suspending while another fiber holds
// it. Recursive locking is a contract violation.
func (m *Mutex) Lock(self *Fiber) {
	if self == nil {
		panic("fiber: mutex lock requires a fiber")
	}
	m.splk.Lock()
	for m.owner != nil {
		if m.owner == self {
			m.splk.Unlock()
			panic("fiber: recursive mutex lock")
		}
		m.waiters.push(self)
		self.suspend(&m.splk)
		m.splk.Lock()
		// a stale wake leaves the waiter queued; unlink before retrying
		m.waiters.unlink(self)
		if m.owner == self {
			// ownership was handed off by Unlock
			m.splk.Unlock()
			return
		}
	}
	m.owner = self
	m.splk.Unlock()
}

// TryLock acquires the mutex for self without suspending.
// Reports whether it succeeded.
func (m *Mutex) TryLock(self *Fiber) bool {
	if self == nil {
		panic("fiber: mutex lock requires a fiber")
	}
	m.splk.Lock()
	if m.owner != nil {
		m.splk.Unlock()
		return false
	}
	m.owner = self
	m.splk.Unlock()
	return true
}

// Unlock releases the mutex held by self, handing ownership to the head
// waiter if any. Unlocking a mutex not owned by self is a contract
// violation.
func (m *Mutex) Unlock(self *Fiber) {
	m.splk.Lock()
	if m.owner != self {
		m.splk.Unlock()
		panic("fiber: unlock of mutex not owned by caller")
	}
	if w := m.waiters.pop(); w != nil {
		m.owner = w
		m.splk.Unlock()
		readyFiber(self, w)
		return
	}
	m.owner = nil
	m.splk.Unlock()
}
