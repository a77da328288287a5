// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

// waitList is an intrusive FIFO of fibers linked through Fiber.next.
// A fiber resides in at most one waitList at a time; enqueue/dequeue
// discipline is the owning primitive's responsibility, under that
// primitive's lock. waitList has no synchronization of its own.
type waitList struct {
	head *Fiber
	tail *Fiber
}

// empty reports whether the list has no fibers.
func (l *waitList) empty() bool { return l.head == nil }

// push appends f at the tail. f must not be in any list.
func (l *waitList) push(f *Fiber) {
	if l.tail == nil {
		l.head, l.tail = f, f
		return
	}
	l.tail.next = f
	l.tail = f
}

// pop removes and returns the head, or nil if the list is empty.
func (l *waitList) pop() *Fiber {
	f := l.head
	if f == nil {
		return nil
	}
	l.head = f.next
	if l.head == nil {
		l.tail = nil
	}
	f.next = nil
	return f
}

// unlink splices f out of the list. Reports whether f was a member.
// A notifier and a timed-out waiter may race for the same fiber, so the
// loser finding it already removed is a no-op, not an error.
func (l *waitList) unlink(f *Fiber) bool {
	var prev *Fiber
	for cur := l.head; cur != nil; cur = cur.next {
		if cur != f {
			prev = cur
			continue
		}
		if prev == nil {
			l.head = cur.next
		} else {
			prev.next = cur.next
		}
		if l.tail == cur {
			l.tail = prev
		}
		cur.next = nil
		return true
	}
	return false
}
