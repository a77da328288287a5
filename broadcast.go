// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"reflect"
	"sync"
)

// broadcastSlot is one subscription: the callback and its token.
type broadcastSlot[T any] struct {
	id uint64
	fn func(T)
}

// Broadcast fans one event out to every connected slot, in subscription
// order. The slot list drops its lock during dispatch so slots may freely
// connect and disconnect; the outer mutex restores the guarantee that two
// threads never invoke slots concurrently, so slot invocations across
// concurrent Notify calls are totally ordered.
//
// A slot must not notify the same Broadcast recursively; that deadlocks
// by contract.
type Broadcast[T any] struct {
	notifyMu sync.Mutex

	mu     sync.Mutex
	slots  []broadcastSlot[T]
	nextID uint64
}

// Connection is an opaque subscription token. Dropping it without calling
// Disconnect leaves the slot connected.
type Connection struct {
	once sync.Once
	off  func()
}

// Disconnect removes the subscription. Idempotent; safe to call while a
// notification is in flight (the in-flight call may still invoke the
// slot; subsequent notifications will not).
func (c *Connection) Disconnect() {
	c.off()
}

// Connect appends slot to the subscription list and returns its token.
// Thread-safe, including from inside a slot during Notify; the new slot
// is observed by subsequent notifications only.
func (b *Broadcast[T]) Connect(slot func(T)) *Connection {
	if slot == nil {
		panic("fiber: connect of nil slot")
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.slots = append(b.slots, broadcastSlot[T]{id: id, fn: slot})
	b.mu.Unlock()
	conn := &Connection{}
	conn.off = func() {
		conn.once.Do(func() { b.disconnect(id) })
	}
	return conn
}

func (b *Broadcast[T]) disconnect(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.slots {
		if b.slots[i].id == id {
			b.slots = append(b.slots[:i], b.slots[i+1:]...)
			return
		}
	}
}

// Notify invokes every live slot with v in subscription order, serialized
// against concurrent Notify calls. A panic in a slot propagates to the
// caller, skipping the remaining slots of this call only; later Notify
// calls are unaffected.
func (b *Broadcast[T]) Notify(v T) {
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()
	b.mu.Lock()
	snapshot := make([]broadcastSlot[T], len(b.slots))
	copy(snapshot, b.slots)
	b.mu.Unlock()
	for i := range snapshot {
		snapshot[i].fn(v)
	}
}

// sinks is the process-global registry of per-payload-type broadcast
// instances, lazily initialized by Sink.
var (
	sinkMu sync.Mutex
	sinks  = make(map[reflect.Type]any)
)

// Sink returns the process-global Broadcast for payload type T, creating
// it on first use. Distinct payload types get distinct instances.
func Sink[T any]() *Broadcast[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	sinkMu.Lock()
	defer sinkMu.Unlock()
	if b, ok := sinks[key]; ok {
		return b.(*Broadcast[T])
	}
	b := &Broadcast[T]{}
	sinks[key] = b
	return b
}
