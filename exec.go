// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// channelHandler implements kont.Handler for channel effects.
// Waits on iox.ErrWouldBlock, converting non-blocking dispatch into
// blocking evaluation for Exec/ExecExpr.
type channelHandler[R any] struct{}

// Dispatch implements kont.Handler via structural interface assertion.
// Waits past the iox.ErrWouldBlock boundary with adaptive backoff.
func (channelHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	cop, ok := op.(channelDispatcher)
	if !ok {
		panic("fiber: unhandled effect in channelHandler")
	}
	return dispatchWait(cop), true
}

// dispatchWait blocks until DispatchChannel resolves, backing off on
// iox.ErrWouldBlock with iox.Backoff.
func dispatchWait(cop channelDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := cop.DispatchChannel()
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// Exec runs a Cont-world channel protocol to completion on the calling
// goroutine. Blocks on iox.ErrWouldBlock via adaptive backoff, without
// requiring a fiber or a scheduler on the calling side.
func Exec[R any](protocol kont.Eff[R]) R {
	return kont.Handle(protocol, channelHandler[R]{})
}

// ExecExpr runs an Expr-world channel protocol to completion on the
// calling goroutine. Blocks on iox.ErrWouldBlock via adaptive backoff.
func ExecExpr[R any](protocol kont.Expr[R]) R {
	return kont.HandleExpr(protocol, channelHandler[R]{})
}
