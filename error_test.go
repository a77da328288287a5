// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/fiber"
	"code.hybscloud.com/iox"
)

func TestChanStatusString(t *testing.T) {
	cases := []struct {
		st   fiber.ChanStatus
		want string
	}{
		{fiber.StatusSuccess, "success"},
		{fiber.StatusEmpty, "empty"},
		{fiber.StatusFull, "full"},
		{fiber.StatusClosed, "closed"},
		{fiber.StatusTimeout, "timeout"},
		{fiber.ChanStatus(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.st.String(); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}

func TestFiberErrorKind(t *testing.T) {
	err := &fiber.FiberError{Op: "value pop on closed channel", Kind: fiber.ErrNotPermitted}
	if !fiber.IsNotPermitted(err) {
		t.Fatalf("IsNotPermitted(%v) = false", err)
	}
	if !errors.Is(err, fiber.ErrNotPermitted) {
		t.Fatalf("errors.Is failed for %v", err)
	}
	want := "fiber: value pop on closed channel: operation not permitted"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
	if fiber.IsNotPermitted(errors.New("other")) {
		t.Fatal("IsNotPermitted matched an unrelated error")
	}
}

func TestWouldBlockClassification(t *testing.T) {
	if !fiber.IsWouldBlock(iox.ErrWouldBlock) {
		t.Fatal("IsWouldBlock(iox.ErrWouldBlock) = false")
	}
	if fiber.IsWouldBlock(nil) {
		t.Fatal("IsWouldBlock(nil) = true")
	}
	if !fiber.IsNonFailure(nil) {
		t.Fatal("IsNonFailure(nil) = false")
	}
	if !fiber.IsNonFailure(iox.ErrWouldBlock) {
		t.Fatal("IsNonFailure(iox.ErrWouldBlock) = false")
	}
	if fiber.IsNonFailure(errors.New("boom")) {
		t.Fatal("IsNonFailure matched a real failure")
	}
}
