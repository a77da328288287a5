// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import "testing"

func TestWaitListFIFO(t *testing.T) {
	var l waitList
	a, b, c := &Fiber{}, &Fiber{}, &Fiber{}
	if !l.empty() {
		t.Fatal("fresh list not empty")
	}
	l.push(a)
	l.push(b)
	l.push(c)
	if l.empty() {
		t.Fatal("non-empty list reported empty")
	}
	for i, want := range []*Fiber{a, b, c} {
		if got := l.pop(); got != want {
			t.Fatalf("pop %d returned wrong fiber", i)
		}
	}
	if l.pop() != nil {
		t.Fatal("pop of empty list returned a fiber")
	}
}

func TestWaitListUnlink(t *testing.T) {
	a, b, c := &Fiber{}, &Fiber{}, &Fiber{}
	build := func() *waitList {
		var l waitList
		l.push(a)
		l.push(b)
		l.push(c)
		return &l
	}

	// head
	l := build()
	if !l.unlink(a) {
		t.Fatal("unlink head failed")
	}
	if l.pop() != b || l.pop() != c || l.pop() != nil {
		t.Fatal("list broken after head unlink")
	}

	// middle
	l = build()
	if !l.unlink(b) {
		t.Fatal("unlink middle failed")
	}
	if l.pop() != a || l.pop() != c || l.pop() != nil {
		t.Fatal("list broken after middle unlink")
	}

	// tail, then push again to exercise the repaired tail pointer
	l = build()
	if !l.unlink(c) {
		t.Fatal("unlink tail failed")
	}
	l.push(c)
	if l.pop() != a || l.pop() != b || l.pop() != c {
		t.Fatal("list broken after tail unlink")
	}

	// absent member is a no-op
	l = &waitList{}
	l.push(a)
	if l.unlink(b) {
		t.Fatal("unlink of non-member reported success")
	}
	if l.pop() != a {
		t.Fatal("list broken after no-op unlink")
	}
}

func TestSpinLock(t *testing.T) {
	var l SpinLock
	l.Lock()
	if l.TryLock() {
		t.Fatal("trylock of held lock succeeded")
	}
	l.Unlock()
	if !l.TryLock() {
		t.Fatal("trylock of free lock failed")
	}
	l.Unlock()
}
