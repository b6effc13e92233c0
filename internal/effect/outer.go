package effect

import (
	"math"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
)

// outerEffect reveals the target through a circle centered at d.Position
// that starts covering the whole canvas and shrinks toward the center as
// progress advances — the target appears outside the shrinking circle.
type outerEffect struct {
	d Descriptor
}

func (e *outerEffect) Apply(dst, target []byte, width, height int, format common.PixelFormat, progress float64) bool {
	if progress >= 1 {
		copy(dst, target)
		return true
	}

	cx, cy, rMax := maxRadius(width, height, e.d.Position, e.d.InvertY)
	radius := (1 - progress) * rMax
	band := e.d.BarWidth * rMax

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			i := y*width + x

			// Inverted relative to growEffect: beyond the (shrinking)
			// radius is target, within it is still the prior frame.
			f := circleSample(radius, d, band)
			if f <= 0 {
				continue
			}
			dr, dg, db := common.ReadPixel(dst, i, format)
			tr, tg, tb := common.ReadPixel(target, i, format)
			if f >= 1 {
				common.WritePixel(dst, i, tr, tg, tb, format)
				continue
			}
			common.WritePixel(dst, i,
				common.LerpByte(dr, tr, f),
				common.LerpByte(dg, tg, f),
				common.LerpByte(db, tb, f),
				format)
		}
	}
	return false
}
