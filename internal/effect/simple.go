package effect

import "github.com/wlwallpaperd/wlwallpaperd/internal/common"

// simpleEffect moves each channel toward the target by d.Step per frame.
// With Step=255 it completes in a single frame, matching the
// boundary case.
type simpleEffect struct {
	d Descriptor
}

func (e *simpleEffect) Apply(dst, target []byte, width, height int, format common.PixelFormat, progress float64) bool {
	step := e.d.Step
	if step == 0 {
		step = 1
	}

	n := width * height
	done := true
	for i := 0; i < n; i++ {
		dr, dg, db := common.ReadPixel(dst, i, format)
		tr, tg, tb := common.ReadPixel(target, i, format)

		nr := common.StepToward(dr, tr, step)
		ng := common.StepToward(dg, tg, step)
		nb := common.StepToward(db, tb, step)

		if nr != tr || ng != tg || nb != tb {
			done = false
		}
		common.WritePixel(dst, i, nr, ng, nb, format)
	}
	return done
}
