// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ChanStatus is the outcome of a channel operation.
type ChanStatus uint8

const (
	// StatusSuccess reports a completed rendezvous.
	StatusSuccess ChanStatus = iota
	// StatusEmpty is reserved for buffered variants; no unbuffered
	// operation returns it.
	StatusEmpty
	// StatusFull is reserved for buffered variants; no unbuffered
	// operation returns it.
	StatusFull
	// StatusClosed reports that the channel was closed before the
	// operation could complete.
	StatusClosed
	// StatusTimeout reports that the deadline passed before a peer
	// arrived.
	StatusTimeout
)

// String returns the status name.
func (s ChanStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusFull:
		return "full"
	case StatusClosed:
		return "closed"
	case StatusTimeout:
		return "timeout"
	}
	return "unknown"
}

// ErrNotPermitted is the fiber-error kind for operations that are invalid
// in the channel's current state, such as [Channel.ValuePop] on a closed
// channel.
var ErrNotPermitted = errors.New("operation not permitted")

// FiberError is a typed error raised by value-returning operations that
// have no status result to report through.
type FiberError struct {
	Op   string
	Kind error
}

// Error implements error.
func (e *FiberError) Error() string {
	return "fiber: " + e.Op + ": " + e.Kind.Error()
}

// Unwrap exposes the error kind for errors.Is.
func (e *FiberError) Unwrap() error { return e.Kind }

// IsNotPermitted reports whether err carries the ErrNotPermitted kind.
func IsNotPermitted(err error) bool { return errors.Is(err, ErrNotPermitted) }

// IsWouldBlock reports whether err is the non-blocking boundary signal.
// Semantic error classification delegates to iox, as in lfq.
func IsWouldBlock(err error) bool { return iox.IsWouldBlock(err) }

// IsNonFailure reports whether err is nil or the would-block signal.
func IsNonFailure(err error) bool { return err == nil || iox.IsWouldBlock(err) }
