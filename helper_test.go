// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber_test

import (
	"code.hybscloud.com/fiber"
)

// startRun drives s.Run on its own goroutine and returns a wait function
// that blocks until the scheduler drains. Used by tests that interact
// with fibers from the test goroutine (non-fiber callers).
func startRun(s *fiber.Scheduler) (wait func()) {
	done := make(chan struct{})
	go func() {
		s.Run()
		close(done)
	}()
	return func() { <-done }
}
