// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber_test

import (
	"testing"
	"time"

	"code.hybscloud.com/fiber"
	"code.hybscloud.com/kont"
)

func TestRun2DeadlockCoverage(t *testing.T) {
	ch := fiber.NewChannel[int]()
	a := fiber.PopBind(ch, func(kont.Either[fiber.ChanStatus, int]) kont.Eff[struct{}] {
		return kont.Pure(struct{}{})
	})
	b := fiber.PopBind(ch, func(kont.Either[fiber.ChanStatus, int]) kont.Eff[struct{}] {
		return kont.Pure(struct{}{})
	})

	go func() {
		fiber.Run2(a, b)
	}()

	time.Sleep(50 * time.Millisecond) // Give it time to hit bo.Wait()
}

func TestIdleSchedulerParksOnTimer(t *testing.T) {
	skipRace(t)
	s := fiber.NewScheduler()
	start := time.Now()
	s.Spawn(func(self *fiber.Fiber) {
		self.Sleep(20 * time.Millisecond)
	})
	s.Run()
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("scheduler returned after %v, want >= 20ms", elapsed)
	}
}
