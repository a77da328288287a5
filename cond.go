// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import "time"

// Cond is a condition variable backed by an intrusive FIFO wait queue.
// It stores no predicate: callers hold a [Locker] guarding theirs and
// re-check it in a loop, since spurious wakeups are permitted.
//
// The zero value is a Cond with no waiters. A Cond must not be copied
// after first use.
type Cond struct {
	splk    SpinLock
	waiters waitList
}

// Wait suspends self until notified. lk is the caller-held lock guarding
// the predicate; it is released while waiting and reacquired before Wait
// returns.
func (c *Cond) Wait(self *Fiber, lk Locker) {
	if self == nil {
		panic("fiber: cond wait requires a fiber")
	}
	c.splk.Lock()
	c.waiters.push(self)
	lk.Unlock(self)
	self.suspend(&c.splk)
	// a stale wake leaves the waiter queued; unlink before returning
	c.splk.Lock()
	c.waiters.unlink(self)
	c.splk.Unlock()
	lk.Lock(self)
}

// WaitUntil is Wait with a deadline. It reports true if the wake was a
// notification, false on timeout. A timed-out waiter unlinks itself and
// cannot be woken by a later notify.
func (c *Cond) WaitUntil(self *Fiber, lk Locker, t time.Time) bool {
	if self == nil {
		panic("fiber: cond wait requires a fiber")
	}
	c.splk.Lock()
	c.waiters.push(self)
	lk.Unlock(self)
	ok := self.waitUntil(t, &c.splk)
	c.splk.Lock()
	c.waiters.unlink(self)
	c.splk.Unlock()
	lk.Lock(self)
	return ok
}

// WaitFor is WaitUntil with a relative timeout.
func (c *Cond) WaitFor(self *Fiber, lk Locker, d time.Duration) bool {
	return c.WaitUntil(self, lk, time.Now().Add(d))
}

// NotifyOne wakes the longest-waiting fiber, if any. self is the calling
// fiber, or nil when notifying from outside any fiber. The waiter is
// popped under the spinlock and scheduled outside it.
func (c *Cond) NotifyOne(self *Fiber) {
	c.splk.Lock()
	f := c.waiters.pop()
	c.splk.Unlock()
	if f != nil {
		readyFiber(self, f)
	}
}

// NotifyAll wakes every waiting fiber in FIFO order. The queue is drained
// under the spinlock and scheduled outside it.
func (c *Cond) NotifyAll(self *Fiber) {
	c.splk.Lock()
	var drained waitList
	drained, c.waiters = c.waiters, waitList{}
	c.splk.Unlock()
	for f := drained.pop(); f != nil; f = drained.pop() {
		readyFiber(self, f)
	}
}
