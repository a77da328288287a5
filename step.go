// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/kont"
)

// Reify converts a Cont-world channel protocol to Expr-world, where it
// can be stepped with Step and Advance.
func Reify[A any](m kont.Eff[A]) kont.Expr[A] {
	return kont.Reify(m)
}

// Step evaluates a channel protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended channel operation. Non-blocking: on
// iox.ErrWouldBlock the suspension is unconsumed and may be retried once
// a peer makes progress. On success the suspension is consumed and the
// protocol advances to the next effect or completion.
func Advance[R any](susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	cop, ok := susp.Op().(channelDispatcher)
	if !ok {
		panic("fiber: unhandled effect in Advance")
	}
	v, err := cop.DispatchChannel()
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
