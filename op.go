// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// channelDispatcher is the structural interface for channel effect
// operations. DispatchChannel is non-blocking: it returns
// iox.ErrWouldBlock at the rendezvous boundary when the operation cannot
// make progress yet, and may be retried until it resolves.
type channelDispatcher interface {
	DispatchChannel() (kont.Resumed, error)
}

// PushOp is the effect operation for pushing a value into a channel.
// Perform(&PushOp[T]{Ch: ch, Value: v}) resumes with StatusSuccess once a
// consumer has taken v, or StatusClosed.
//
// Dispatch is two-phase: the first successful dispatch publishes the
// slot; subsequent dispatches poll its outcome. A PushOp is single-use.
type PushOp[T any] struct {
	kont.Phantom[ChanStatus]
	Ch    *Channel[T]
	Value T

	slot *slot[T]
}

// DispatchChannel handles PushOp on the rendezvous channel.
// Non-blocking: returns iox.ErrWouldBlock while the slot is occupied or
// the published value has not been consumed yet.
func (p *PushOp[T]) DispatchChannel() (kont.Resumed, error) {
	c := p.Ch
	if p.slot == nil {
		if c.IsClosed() {
			return StatusClosed, nil
		}
		s := &slot[T]{value: p.Value}
		if !c.tryPush(s) {
			return nil, iox.ErrWouldBlock
		}
		p.slot = s
		c.splk.Lock()
		if c.IsClosed() {
			if c.slotPtr.CompareAndSwap(s, nil) {
				c.splk.Unlock()
				p.slot = nil
				return StatusClosed, nil
			}
		}
		consumer := c.consumers.pop()
		c.splk.Unlock()
		if consumer != nil {
			readyFiber(nil, consumer)
		}
	}
	s := p.slot
	if s.delivered.Load() != 0 {
		return StatusSuccess, nil
	}
	if s.discarded.Load() != 0 {
		return StatusClosed, nil
	}
	return nil, iox.ErrWouldBlock
}

// PopOp is the effect operation for popping a value from a channel.
// Perform(PopOp[T]{Ch: ch}) resumes with Right(value), or with
// Left(StatusClosed) once the channel is closed and drained.
type PopOp[T any] struct {
	kont.Phantom[kont.Either[ChanStatus, T]]
	Ch *Channel[T]
}

// DispatchChannel handles PopOp on the rendezvous channel.
// Non-blocking: returns iox.ErrWouldBlock while no slot is published.
func (p PopOp[T]) DispatchChannel() (kont.Resumed, error) {
	c := p.Ch
	s := c.tryPop()
	if s == nil {
		if c.IsClosed() {
			return kont.Left[ChanStatus, T](StatusClosed), nil
		}
		return nil, iox.ErrWouldBlock
	}
	v := s.value
	c.deliver(nil, s)
	return kont.Right[ChanStatus](v), nil
}

// CloseOp is the effect operation for closing a channel.
// Perform(CloseOp[T]{Ch: ch}) never blocks; Close is idempotent.
type CloseOp[T any] struct {
	kont.Phantom[struct{}]
	Ch *Channel[T]
}

// DispatchChannel handles CloseOp. Never returns iox.ErrWouldBlock.
func (p CloseOp[T]) DispatchChannel() (kont.Resumed, error) {
	p.Ch.Close()
	return struct{}{}, nil
}
