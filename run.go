// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Run2 runs two channel protocols to completion, interleaved on the
// calling goroutine, and returns both results. When neither side can make
// progress it waits with adaptive backoff (iox.Backoff). Does not spawn
// goroutines or require a scheduler.
func Run2[A, B any](a kont.Eff[A], b kont.Eff[B]) (A, B) {
	resultA, suspA := Step(Reify(a))
	resultB, suspB := Step(Reify(b))
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = Advance(suspA)
			if err == nil {
				progress = true
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = Advance(suspB)
			if err == nil {
				progress = true
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}
