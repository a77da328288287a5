// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber_test

import (
	"testing"

	"code.hybscloud.com/fiber"
	"code.hybscloud.com/kont"
)

func TestStepAdvanceHandshake(t *testing.T) {
	skipRace(t)
	ch := fiber.NewChannel[int]()

	pushEff := fiber.PushBind(ch, 42, func(st fiber.ChanStatus) kont.Eff[fiber.ChanStatus] {
		return kont.Pure(st)
	})
	popEff := fiber.PopBind(ch, func(e kont.Either[fiber.ChanStatus, int]) kont.Eff[int] {
		v, _ := e.GetRight()
		return kont.Pure(v)
	})

	_, pushSusp := fiber.Step(fiber.Reify(pushEff))
	if pushSusp == nil {
		t.Fatal("push protocol completed without suspension")
	}
	_, popSusp := fiber.Step(fiber.Reify(popEff))
	if popSusp == nil {
		t.Fatal("pop protocol completed without suspension")
	}

	// pop first: nothing published yet, retryable
	_, popSusp, err := fiber.Advance(popSusp)
	if !fiber.IsWouldBlock(err) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}
	if popSusp == nil {
		t.Fatal("would-block consumed the suspension")
	}

	// push publishes its slot but the value is not consumed yet
	_, pushSusp, err = fiber.Advance(pushSusp)
	if !fiber.IsWouldBlock(err) {
		t.Fatalf("expected ErrWouldBlock, got %v", err)
	}

	// pop claims the published slot and completes
	v, popNext, err := fiber.Advance(popSusp)
	if err != nil {
		t.Fatalf("pop advance failed: %v", err)
	}
	if popNext != nil {
		t.Fatal("pop protocol did not complete")
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}

	// push observes the delivery and completes
	st, pushNext, err := fiber.Advance(pushSusp)
	if err != nil {
		t.Fatalf("push advance failed: %v", err)
	}
	if pushNext != nil {
		t.Fatal("push protocol did not complete")
	}
	if st != fiber.StatusSuccess {
		t.Fatalf("push got %v, want %v", st, fiber.StatusSuccess)
	}
}

func TestPopOpClosedShortCircuits(t *testing.T) {
	skipRace(t)
	ch := fiber.NewChannel[int]()
	if done := fiber.Exec(fiber.CloseDone(ch, "closed")); done != "closed" {
		t.Fatalf("got %q, want %q", done, "closed")
	}

	popEff := fiber.PopBind(ch, func(e kont.Either[fiber.ChanStatus, int]) kont.Eff[int] {
		if e.IsLeft() {
			return kont.Pure(-1)
		}
		v, _ := e.GetRight()
		return kont.Pure(v)
	})
	_, susp := fiber.Step(fiber.Reify(popEff))
	v, next, err := fiber.Advance(susp)
	if err != nil {
		t.Fatalf("advance on closed channel failed: %v", err)
	}
	if next != nil {
		t.Fatal("protocol did not complete")
	}
	if v != -1 {
		t.Fatalf("got %d, want -1 (closed branch)", v)
	}
}

func TestPushOpClosedChannel(t *testing.T) {
	skipRace(t)
	ch := fiber.NewChannel[int]()
	ch.Close()
	st := fiber.Exec(fiber.PushBind(ch, 1, func(st fiber.ChanStatus) kont.Eff[fiber.ChanStatus] {
		return kont.Pure(st)
	}))
	if st != fiber.StatusClosed {
		t.Fatalf("got %v, want %v", st, fiber.StatusClosed)
	}
}

func TestAdvanceUnhandledPanics(t *testing.T) {
	type bogus struct{ kont.Phantom[int] }
	_, susp := fiber.Step(fiber.Reify(kont.Perform(bogus{})))
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unhandled effect")
		}
		msg, ok := r.(string)
		if !ok || msg != "fiber: unhandled effect in Advance" {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fiber.Advance(susp)
}

func TestExecUnhandledPanics(t *testing.T) {
	type bogus struct{ kont.Phantom[int] }
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unhandled effect")
		}
		msg, ok := r.(string)
		if !ok || msg != "fiber: unhandled effect in channelHandler" {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fiber.Exec(kont.Perform(bogus{}))
}
