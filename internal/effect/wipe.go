package effect

import (
	"math"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
)

// wipeEffect reveals the target along a straight line at d.AngleDegrees,
// with a soft blend band d.BarWidth wide straddling the advancing
// threshold.
type wipeEffect struct {
	d Descriptor
}

// perpProjection returns the min/max that the coordinate along the
// direction cos/sin takes over the canvas corners, so progress can be mapped
// onto a normalized [0,1] sweep regardless of angle or aspect ratio.
func perpProjection(width, height int, cos, sin float64) (minP, maxP float64) {
	corners := [4][2]float64{
		{0, 0}, {float64(width), 0}, {0, float64(height)}, {float64(width), float64(height)},
	}
	minP, maxP = math.Inf(1), math.Inf(-1)
	for _, c := range corners {
		p := c[0]*cos + c[1]*sin
		if p < minP {
			minP = p
		}
		if p > maxP {
			maxP = p
		}
	}
	return
}

// wipeSample returns the target-blend factor (1 = fully target, 0 = keep
// dst) for a pixel at the given normalized projection value (0..1) against a
// threshold also in (0..1), softened by a barWidth-wide band. waveEffect
// adds its sine perturbation to the projection before calling it.
func wipeSample(dproj, threshold, barWidth float64) (onTargetSide float64) {
	if barWidth <= 0 {
		if dproj < threshold {
			return 1
		}
		return 0
	}
	lo := threshold - barWidth/2
	hi := threshold + barWidth/2
	if dproj < lo {
		return 1
	}
	if dproj > hi {
		return 0
	}
	return (hi - dproj) / barWidth
}

func (e *wipeEffect) Apply(dst, target []byte, width, height int, format common.PixelFormat, progress float64) bool {
	if progress >= 1 {
		copy(dst, target)
		return true
	}

	angle := e.d.AngleDegrees * math.Pi / 180
	cos, sin := math.Cos(angle), math.Sin(angle)
	minP, maxP := perpProjection(width, height, cos, sin)
	span := maxP - minP
	if span == 0 {
		span = 1
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			proj := (float64(x)*cos+float64(y)*sin-minP) / span
			i := y*width + x

			f := wipeSample(proj, progress, e.d.BarWidth)
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
