// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/kont"
)

// PushThen pushes a value and then continues with next, discarding the
// push status. Fuses Perform(&PushOp) + Then. Use PushBind to observe a
// close instead.
func PushThen[T, B any](ch *Channel[T], v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(&PushOp[T]{Ch: ch, Value: v}), next)
}

// PushBind pushes a value and passes the resulting status to f.
// Fuses Perform(&PushOp) + Bind.
func PushBind[T, B any](ch *Channel[T], v T, f func(ChanStatus) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(&PushOp[T]{Ch: ch, Value: v}), f)
}

// PopBind pops a value and passes it to f: Right(value) on success,
// Left(StatusClosed) once the channel is closed and drained.
// Fuses Perform(PopOp) + Bind.
func PopBind[T, B any](ch *Channel[T], f func(kont.Either[ChanStatus, T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(PopOp[T]{Ch: ch}), f)
}

// CloseDone closes the channel and returns a.
// Fuses Perform(CloseOp) + Then + Pure.
func CloseDone[T, A any](ch *Channel[T], a A) kont.Eff[A] {
	return kont.Then(kont.Perform(CloseOp[T]{Ch: ch}), kont.Pure(a))
}
