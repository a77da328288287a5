// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"iter"
	"sync/atomic"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// slot is the producer-owned record of one rendezvous: the value, the
// producer to acknowledge, and the outcome flags. For fiber producers it
// lives in the producer's frame for the duration of the push; the
// producer's goroutine is parked, so the address stays valid until the
// slot is unpublished.
//
// Exactly one party unpublishes a given slot: a consumer (delivered), the
// producer itself (on timeout, or on finding the channel closed right
// after publishing), or Close (discarded). delivered is checked
// before discarded, so a consumer racing Close still counts as success.
type slot[T any] struct {
	value     T
	fib       *Fiber
	delivered atomix.Uint32
	discarded atomix.Uint32
}

// outcome resolves how an unpublished slot ended, re-suspending the
// producer past spurious wakeups until the winning party's flag lands.
func (s *slot[T]) outcome(self *Fiber) ChanStatus {
	for {
		if s.delivered.Load() != 0 {
			return StatusSuccess
		}
		if s.discarded.Load() != 0 {
			return StatusClosed
		}
		self.suspend(nil)
	}
}

// Channel is an unbuffered rendezvous channel: every successful push is
// matched one-to-one with a successful pop, and the value moves directly
// from the producer's slot to the consumer. Neither side observes success
// before the exchange.
//
// The slot pointer and closed flag are lock-free (CAS, acquire/release);
// the wait queues and the closed transition are serialized by the
// channel's spinlock. A Channel may be shared across schedulers and OS
// threads.
type Channel[T any] struct {
	slotPtr atomic.Pointer[slot[T]]
	closed  atomix.Uint32
	splk    SpinLock

	producers waitList
	consumers waitList
}

// NewChannel creates an open unbuffered channel.
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{}
}

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool {
	return c.closed.Load() != 0
}

// tryPush publishes s. Reports false if another slot is already published.
func (c *Channel[T]) tryPush(s *slot[T]) bool {
	return c.slotPtr.CompareAndSwap(nil, s)
}

// tryPop claims and unpublishes the current slot, or returns nil.
func (c *Channel[T]) tryPop() *slot[T] {
	for {
		s := c.slotPtr.Load()
		if s == nil {
			return nil
		}
		if c.slotPtr.CompareAndSwap(s, nil) {
			return s
		}
	}
}

// Push delivers v to exactly one consumer, suspending self until the
// value is consumed. Returns StatusSuccess or StatusClosed. A nil self
// (not a fiber) waits with adaptive backoff instead of suspending.
func (c *Channel[T]) Push(self *Fiber, v T) ChanStatus {
	return c.push(self, v, time.Time{}, false)
}

// PushUntil is Push with an absolute deadline. On StatusTimeout the value
// was not delivered and the slot is unpublished.
func (c *Channel[T]) PushUntil(self *Fiber, v T, t time.Time) ChanStatus {
	return c.push(self, v, t, true)
}

// PushFor is PushUntil with a relative timeout.
func (c *Channel[T]) PushFor(self *Fiber, v T, d time.Duration) ChanStatus {
	return c.push(self, v, time.Now().Add(d), true)
}

func (c *Channel[T]) push(self *Fiber, v T, deadline time.Time, timed bool) ChanStatus {
	if self == nil {
		return c.pushExternal(v, deadline, timed)
	}
	s := slot[T]{value: v, fib: self}
	for {
		if c.IsClosed() {
			return StatusClosed
		}
		if c.tryPush(&s) {
			c.splk.Lock()
			if c.IsClosed() {
				// Close may have raced the publish and missed the slot;
				// whoever unpublishes it settles the outcome.
				if c.slotPtr.CompareAndSwap(&s, nil) {
					c.splk.Unlock()
					return StatusClosed
				}
			}
			if consumer := c.consumers.pop(); consumer != nil {
				readyFiber(self, consumer)
			}
			if !timed {
				self.suspend(&c.splk)
				return s.outcome(self)
			}
			ok := self.waitUntil(deadline, &c.splk)
			for {
				if s.delivered.Load() != 0 {
					return StatusSuccess
				}
				if s.discarded.Load() != 0 {
					return StatusClosed
				}
				if ok {
					// spurious wake; keep the deadline armed
					ok = self.waitUntil(deadline, nil)
					continue
				}
				if c.slotPtr.CompareAndSwap(&s, nil) {
					// never consumed
					return StatusTimeout
				}
				// lost the unpublish race; the winner's flag lands next
				self.suspend(nil)
			}
		}
		c.splk.Lock()
		if c.IsClosed() {
			c.splk.Unlock()
			return StatusClosed
		}
		if c.slotPtr.Load() == nil {
			// slot freed between the CAS and the lock
			c.splk.Unlock()
			continue
		}
		c.producers.push(self)
		if timed {
			ok := self.waitUntil(deadline, &c.splk)
			c.splk.Lock()
			c.producers.unlink(self)
			c.splk.Unlock()
			if !ok {
				return StatusTimeout
			}
		} else {
			self.suspend(&c.splk)
			// a stale wake leaves the producer queued; unlink before retrying
			c.splk.Lock()
			c.producers.unlink(self)
			c.splk.Unlock()
		}
		// resumed: the slot may be free, retry
	}
}

// pushExternal is the push path for non-fiber callers: the slot outcome is
// awaited with adaptive backoff instead of suspension.
func (c *Channel[T]) pushExternal(v T, deadline time.Time, timed bool) ChanStatus {
	s := &slot[T]{value: v}
	var bo iox.Backoff
	for {
		if c.IsClosed() {
			return StatusClosed
		}
		if c.tryPush(s) {
			c.splk.Lock()
			if c.IsClosed() {
				if c.slotPtr.CompareAndSwap(s, nil) {
					c.splk.Unlock()
					return StatusClosed
				}
			}
			consumer := c.consumers.pop()
			c.splk.Unlock()
			if consumer != nil {
				readyFiber(nil, consumer)
			}
			bo.Reset()
			for {
				if s.delivered.Load() != 0 {
					return StatusSuccess
				}
				if s.discarded.Load() != 0 {
					return StatusClosed
				}
				if timed && !time.Now().Before(deadline) {
					if c.slotPtr.CompareAndSwap(s, nil) {
						return StatusTimeout
					}
					// claim in flight; wait for the winner's flag
					for s.delivered.Load() == 0 && s.discarded.Load() == 0 {
						bo.Wait()
					}
					continue
				}
				bo.Wait()
			}
		}
		if timed && !time.Now().Before(deadline) {
			return StatusTimeout
		}
		bo.Wait()
	}
}

// Pop receives one value, suspending self until a producer arrives.
// Returns the value with StatusSuccess, or the zero value with
// StatusClosed. A nil self (not a fiber) waits with adaptive backoff.
func (c *Channel[T]) Pop(self *Fiber) (T, ChanStatus) {
	return c.pop(self, time.Time{}, false)
}

// PopUntil is Pop with an absolute deadline.
func (c *Channel[T]) PopUntil(self *Fiber, t time.Time) (T, ChanStatus) {
	return c.pop(self, t, true)
}

// PopFor is PopUntil with a relative timeout.
func (c *Channel[T]) PopFor(self *Fiber, d time.Duration) (T, ChanStatus) {
	return c.pop(self, time.Now().Add(d), true)
}

func (c *Channel[T]) pop(self *Fiber, deadline time.Time, timed bool) (T, ChanStatus) {
	var zero T
	if self == nil {
		return c.popExternal(deadline, timed)
	}
	for {
		if s := c.tryPop(); s != nil {
			v := s.value
			c.deliver(self, s)
			return v, StatusSuccess
		}
		c.splk.Lock()
		if c.IsClosed() {
			c.splk.Unlock()
			return zero, StatusClosed
		}
		if c.slotPtr.Load() != nil {
			// slot published between the CAS and the lock
			c.splk.Unlock()
			continue
		}
		c.consumers.push(self)
		if timed {
			ok := self.waitUntil(deadline, &c.splk)
			c.splk.Lock()
			c.consumers.unlink(self)
			c.splk.Unlock()
			if !ok {
				return zero, StatusTimeout
			}
		} else {
			self.suspend(&c.splk)
			// a stale wake leaves the consumer queued; unlink before retrying
			c.splk.Lock()
			c.consumers.unlink(self)
			c.splk.Unlock()
		}
		// resumed: the slot may be set, retry
	}
}

// popExternal is the pop path for non-fiber callers.
func (c *Channel[T]) popExternal(deadline time.Time, timed bool) (T, ChanStatus) {
	var zero T
	var bo iox.Backoff
	for {
		if s := c.tryPop(); s != nil {
			v := s.value
			c.deliver(nil, s)
			return v, StatusSuccess
		}
		if c.IsClosed() {
			return zero, StatusClosed
		}
		if timed && !time.Now().Before(deadline) {
			return zero, StatusTimeout
		}
		bo.Wait()
	}
}

// deliver completes the consumer side of a claimed slot: wake one queued
// producer to retry for the freed slot, then acknowledge the slot's owner.
// The acknowledgment is the rendezvous signal that the value was consumed.
func (c *Channel[T]) deliver(self *Fiber, s *slot[T]) {
	c.splk.Lock()
	producer := c.producers.pop()
	c.splk.Unlock()
	if producer != nil {
		readyFiber(self, producer)
	}
	s.delivered.Store(1)
	if s.fib != nil {
		readyFiber(self, s.fib)
	}
}

// ValuePop is Pop returning the value alone; a closed channel raises the
// fiber-error kind ErrNotPermitted instead of a status.
func (c *Channel[T]) ValuePop(self *Fiber) (T, error) {
	v, st := c.pop(self, time.Time{}, false)
	if st == StatusClosed {
		return v, &FiberError{Op: "value pop on closed channel", Kind: ErrNotPermitted}
	}
	return v, nil
}

// Close closes the channel: subsequent pushes return StatusClosed, queued
// waiters on both sides wake, and a still-published slot is reclaimed
// without delivering its value (its producer observes StatusClosed).
// Close is idempotent and callable from any goroutine.
func (c *Channel[T]) Close() {
	c.splk.Lock()
	c.closed.Store(1)
	var producers, consumers waitList
	producers, c.producers = c.producers, waitList{}
	consumers, c.consumers = c.consumers, waitList{}
	c.splk.Unlock()
	for f := producers.pop(); f != nil; f = producers.pop() {
		readyFiber(nil, f)
	}
	for f := consumers.pop(); f != nil; f = consumers.pop() {
		readyFiber(nil, f)
	}
	s := c.slotPtr.Load()
	if s == nil {
		return
	}
	if c.slotPtr.CompareAndSwap(s, nil) {
		s.discarded.Store(1)
		if s.fib != nil {
			readyFiber(nil, s.fib)
		}
	}
	// lost the CAS: a consumer or the producer's timeout won; their flag
	// settles the outcome
}

// All returns a single-pass iterator over the channel's values, ending
// when the channel is closed and drained. Iteration consumes values; two
// concurrent iterations see disjoint values.
func (c *Channel[T]) All(self *Fiber) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := c.ValuePop(self)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
