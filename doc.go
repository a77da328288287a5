// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fiber provides a cooperative, stackful task runtime with an
// unbuffered rendezvous channel, a condition variable, and a serialized
// broadcast sink.
//
// Fibers are goroutines gated by a per-thread [Scheduler]: the scheduler
// holds a single run token and hands it to exactly one fiber at a time, so
// at most one fiber of a scheduler executes at any instant and resumption
// order is strictly ready-queue FIFO. Suspension happens only at explicit
// calls (channel operations, condition-variable waits, [Fiber.Yield],
// [Fiber.Sleep], [Mutex.Lock] under contention); there is no preemption.
//
// # Architecture
//
//   - Scheduling: One [Scheduler] per OS thread. Fibers made ready from
//     other threads travel through a bounded lock-free MPSC queue via
//     [code.hybscloud.com/lfq] (release-acquire on the queue link).
//   - Rendezvous: [Channel] transfers exactly one value per matched
//     push/pop through a stack-published slot claimed by compare-and-swap.
//   - Non-blocking: Effect operations and non-fiber callers wait past the
//     [code.hybscloud.com/iox.ErrWouldBlock] boundary with adaptive backoff.
//   - Effects: Channel operations double as algebraic effects on
//     [code.hybscloud.com/kont], evaluated blockingly ([Exec], [Run2]) or
//     one effect at a time ([Step], [Advance]).
//
// # API Topologies
//
//   - Runtime: [NewScheduler], [Scheduler.Spawn], [Scheduler.Run],
//     [Fiber.Yield], [Fiber.Sleep], [Fiber.SleepUntil], [Fiber.Join],
//     [Fiber.Detach].
//   - Synchronization: [Mutex], [Cond], [SpinLock].
//   - Channel: [Channel.Push], [Channel.Pop], timed variants
//     (PushFor/PushUntil/PopFor/PopUntil), [Channel.ValuePop],
//     [Channel.Close], [Channel.All].
//   - Broadcast: [Sink], [Broadcast.Connect], [Broadcast.Notify].
//   - Effect-world: [PushOp], [PopOp], [CloseOp], fused constructors
//     [PushThen], [PushBind], [PopBind], [CloseDone].
//
// # Callers
//
// Blocking operations take the calling fiber as their first argument, the
// way Go code threads a context. A nil caller means "not a fiber": such
// callers are served with adaptive-backoff waiting instead of suspension,
// which is what lets channels and [Fiber.Join] be driven from plain
// goroutines on other OS threads.
//
// # Example
//
//	s := fiber.NewScheduler()
//	ch := fiber.NewChannel[int]()
//	s.Spawn(func(self *fiber.Fiber) { ch.Push(self, 42) })
//	s.Spawn(func(self *fiber.Fiber) {
//		v, _ := ch.Pop(self)
//		_ = v // 42
//	})
//	s.Run()
package fiber
