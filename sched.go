// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"runtime"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// remoteCapacity bounds the remote ready queue. 1024 absorbs bursts of
// cross-thread wakeups and pre-Run spawns; an enqueue against a full queue
// backs off until the dispatcher drains (the queue carries fibers, which
// must never be dropped).
const remoteCapacity = 1024

// sleeper is one timed wait registered with the dispatcher.
type sleeper struct {
	f  *Fiber
	at time.Time
}

// Scheduler multiplexes fibers onto a single OS thread. The local ready
// queue, the sleeper set, and the current fiber are mutated only under the
// scheduler's run token (by the dispatcher, or by the one fiber currently
// holding the token). Fibers made ready from other threads arrive through
// the bounded lock-free MPSC remote queue.
type Scheduler struct {
	readyQ   waitList
	sleepers []sleeper
	current  *Fiber

	// park carries the run token back from the running fiber to the
	// dispatcher; resume channels on each fiber carry it the other way.
	park chan struct{}

	// wake nudges an idle dispatcher after a remote enqueue.
	wake chan struct{}

	remote lfq.Queue[*Fiber]

	live    atomix.Uint32
	running atomix.Uint32
}

// NewScheduler creates a scheduler with no fibers. Spawn fibers onto it,
// then call Run from the goroutine that should host them.
func NewScheduler() *Scheduler {
	return &Scheduler{
		park:   make(chan struct{}),
		wake:   make(chan struct{}, 1),
		remote: lfq.NewMPSC[*Fiber](remoteCapacity),
	}
}

// Spawn creates a fiber that will run fn and queues it ready. Callable
// from any goroutine, before or during Run. The returned handle supports
// Join and Detach.
func (s *Scheduler) Spawn(fn func(*Fiber)) *Fiber {
	if fn == nil {
		panic("fiber: spawn of nil function")
	}
	f := &Fiber{
		sched:  s,
		resume: make(chan struct{}),
		serial: nextSerial(),
	}
	f.state.Store(stateReady)
	s.live.Add(1)
	go func() {
		<-f.resume
		fn(f)
		f.finish()
		s.park <- struct{}{}
	}()
	s.enqueueRemote(f)
	return f
}

// Current returns the fiber currently holding this scheduler's run token,
// or nil. Meaningful only from that fiber's own goroutine.
func (s *Scheduler) Current() *Fiber { return s.current }

// enqueueRemote hands a ready fiber to the dispatcher from outside its
// thread. Backs off while the queue is full; fibers are never dropped.
func (s *Scheduler) enqueueRemote(f *Fiber) {
	var bo iox.Backoff
	for s.remote.Enqueue(&f) != nil {
		bo.Wait()
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run drives the dispatcher loop on the calling goroutine, pinned to its
// OS thread, until no live fibers remain. Ready fibers resume in FIFO
// order; expired sleepers are promoted ahead of the pick; the thread parks
// (bounded by the nearest deadline) when nothing is runnable.
func (s *Scheduler) Run() {
	if !s.running.CompareAndSwap(0, 1) {
		panic("fiber: scheduler already running")
	}
	defer s.running.Store(0)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		s.drainRemote()
		s.fireSleepers(time.Now())
		f := s.readyQ.pop()
		if f == nil {
			if s.live.Load() == 0 {
				return
			}
			s.parkIdle()
			continue
		}
		if f.state.Load() == stateTerminated {
			// stale entry from a wake that raced termination
			continue
		}
		s.unregisterSleeper(f)
		f.state.Store(stateRunning)
		s.current = f
		f.resume <- struct{}{}
		<-s.park
		s.current = nil
		if f.state.Load() == stateTerminated {
			s.live.Add(^uint32(0))
			continue
		}
		if f.timed {
			f.timed = false
			if f.state.Load() == stateWaiting {
				s.registerSleeper(f)
			}
		}
	}
}

// drainRemote moves remotely-readied fibers onto the local ready queue.
func (s *Scheduler) drainRemote() {
	for {
		f, err := s.remote.Dequeue()
		if err != nil {
			return
		}
		s.readyQ.push(f)
	}
}

// fireSleepers promotes every sleeper whose deadline has passed. The CAS
// loses to an explicit wake that arrived first; the entry is dropped
// either way.
func (s *Scheduler) fireSleepers(now time.Time) {
	for len(s.sleepers) > 0 && !s.sleepers[0].at.After(now) {
		sl := s.sleepers[0]
		s.sleepers = s.sleepers[1:]
		if sl.f.state.CompareAndSwap(stateWaiting, stateReady) {
			sl.f.deadlineFired = true
			s.readyQ.push(sl.f)
		}
	}
}

// registerSleeper inserts f into the deadline-ordered sleeper set.
// Ties keep insertion order.
func (s *Scheduler) registerSleeper(f *Fiber) {
	at := f.deadline
	i := len(s.sleepers)
	for i > 0 && s.sleepers[i-1].at.After(at) {
		i--
	}
	s.sleepers = append(s.sleepers, sleeper{})
	copy(s.sleepers[i+1:], s.sleepers[i:])
	s.sleepers[i] = sleeper{f: f, at: at}
}

// unregisterSleeper drops f's entry, if any, before resuming it. A fiber
// woken explicitly before its deadline must not be fired later.
func (s *Scheduler) unregisterSleeper(f *Fiber) {
	for i := range s.sleepers {
		if s.sleepers[i].f == f {
			s.sleepers = append(s.sleepers[:i], s.sleepers[i+1:]...)
			return
		}
	}
}

// parkIdle blocks until a remote wake arrives or the nearest sleeper
// deadline is due.
func (s *Scheduler) parkIdle() {
	if len(s.sleepers) == 0 {
		<-s.wake
		return
	}
	d := time.Until(s.sleepers[0].at)
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	select {
	case <-s.wake:
		t.Stop()
	case <-t.C:
	}
}
