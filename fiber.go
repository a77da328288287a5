// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Fiber wait states. A fiber is ready (queued for its scheduler), running
// (holds the scheduler's run token), waiting (suspended on a primitive),
// or terminated.
const (
	stateReady uint32 = iota
	stateRunning
	stateWaiting
	stateTerminated
)

// Fiber is the control block of one cooperative task: its wait state, its
// intrusive wait-queue link, its run-token gate, and its join queue.
//
// A Fiber's address is its identity. The intrusive next pointer is
// meaningful only while the fiber resides in exactly one wait queue.
type Fiber struct {
	// next links the fiber into one waitList at a time.
	// Owned by whichever primitive's lock guards that list.
	next *Fiber

	sched *Scheduler

	// resume gates execution: the fiber's goroutine blocks receiving on it
	// and runs exactly while the dispatcher has handed it the run token.
	resume chan struct{}

	state atomix.Uint32

	// Timed-wait bookkeeping. Written by the fiber before it returns the
	// run token, read by the dispatcher after receiving it; the token
	// handoff orders the accesses.
	deadline      time.Time
	timed         bool
	deadlineFired bool

	// Join state.
	splk     SpinLock
	joiners  waitList
	detached atomix.Uint32

	serial Serial
}

// Serial returns the serial number assigned to this fiber at spawn.
func (f *Fiber) Serial() Serial { return f.serial }

// Scheduler returns the scheduler that owns this fiber.
func (f *Fiber) Scheduler() *Scheduler { return f.sched }

// suspend parks the calling fiber. It marks the fiber waiting, releases lk
// (if non-nil), yields the run token to the dispatcher, and blocks until
// the fiber is made ready and resumed.
//
// The waiting mark is a CAS from running: if a peer on another thread has
// already made the fiber ready (it discovered the fiber through a
// published slot before the fiber parked), the mark is skipped and the
// park is absorbed by the pending resume.
func (f *Fiber) suspend(lk *SpinLock) {
	f.state.CompareAndSwap(stateRunning, stateWaiting)
	if lk != nil {
		lk.Unlock()
	}
	f.sched.park <- struct{}{}
	<-f.resume
}

// waitUntil is suspend with a deadline. It reports true if the wake was an
// explicit ready, false if the deadline fired. On false the caller is
// responsible for unlinking itself from any wait queue it joined.
func (f *Fiber) waitUntil(t time.Time, lk *SpinLock) bool {
	f.deadline = t
	f.timed = true
	f.deadlineFired = false
	f.state.CompareAndSwap(stateRunning, stateWaiting)
	if lk != nil {
		lk.Unlock()
	}
	f.sched.park <- struct{}{}
	<-f.resume
	return !f.deadlineFired
}

// Yield marks the calling fiber ready behind every fiber already queued
// and switches to the dispatcher, guaranteeing progress of other ready
// fibers before this one runs again.
func (f *Fiber) Yield() {
	f.state.Store(stateReady)
	f.sched.readyQ.push(f)
	f.sched.park <- struct{}{}
	<-f.resume
}

// Sleep suspends the calling fiber for at least d.
func (f *Fiber) Sleep(d time.Duration) {
	f.SleepUntil(time.Now().Add(d))
}

// SleepUntil suspends the calling fiber until at least time t.
func (f *Fiber) SleepUntil(t time.Time) {
	for time.Now().Before(t) {
		f.waitUntil(t, nil)
	}
}

// Join blocks until f terminates. self is the calling fiber; a nil self
// (not a fiber) waits with adaptive backoff instead of suspending.
// Joining a detached fiber or self is a contract violation.
func (f *Fiber) Join(self *Fiber) {
	if f.detached.Load() != 0 {
		panic("fiber: join on detached fiber")
	}
	if f == self {
		panic("fiber: join on self")
	}
	if self == nil {
		var bo iox.Backoff
		for f.state.Load() != stateTerminated {
			bo.Wait()
		}
		return
	}
	f.splk.Lock()
	for f.state.Load() != stateTerminated {
		f.joiners.push(self)
		self.suspend(&f.splk)
		f.splk.Lock()
		// a stale wake leaves the joiner queued; unlink before retrying
		f.joiners.unlink(self)
	}
	f.splk.Unlock()
}

// Detach relinquishes the handle: the fiber runs to completion on its own
// and must not be joined. Detaching twice is a contract violation.
func (f *Fiber) Detach() {
	if !f.detached.CompareAndSwap(0, 1) {
		panic("fiber: double detach")
	}
}

// finish marks the fiber terminated and wakes every joiner. Runs on the
// fiber's own goroutine, immediately before it returns the run token for
// the last time.
func (f *Fiber) finish() {
	f.splk.Lock()
	f.state.Store(stateTerminated)
	var joiners waitList
	joiners, f.joiners = f.joiners, waitList{}
	f.splk.Unlock()
	for w := joiners.pop(); w != nil; w = joiners.pop() {
		readyFiber(f, w)
	}
}

// readyFiber transitions target to ready exactly once and hands it to its
// scheduler. Idempotent: a target already ready (or terminated) is left
// alone. If the caller is a fiber of the same scheduler the push is local
// (the caller holds that thread's run token); any other caller goes
// through the target scheduler's remote queue, which synchronizes-with the
// dispatcher's pickup.
func readyFiber(self, target *Fiber) {
	for {
		st := target.state.Load()
		if st == stateReady || st == stateTerminated {
			return
		}
		if target.state.CompareAndSwap(st, stateReady) {
			break
		}
	}
	ts := target.sched
	if self != nil && self.sched == ts {
		ts.readyQ.push(target)
		return
	}
	ts.enqueueRemote(target)
}
