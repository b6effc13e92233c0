package effect

import (
	"math"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
)

// waveEffect is wipeEffect with the sweep boundary perturbed by a sine wave
// along the orthogonal axis, producing a sinusoidal reveal front.
type waveEffect struct {
	d Descriptor
}

func (e *waveEffect) Apply(dst, target []byte, width, height int, format common.PixelFormat, progress float64) bool {
	if progress >= 1 {
		copy(dst, target)
		return true
	}

	angle := e.d.AngleDegrees * math.Pi / 180
	cos, sin := math.Cos(angle), math.Sin(angle)
	// Orthogonal axis direction, used to evaluate the sine perturbation.
	ocos, osin := -sin, cos

	minP, maxP := perpProjection(width, height, cos, sin)
	span := maxP - minP
	if span == 0 {
		span = 1
	}

	amp := e.d.WaveAmplitude
	freq := e.d.WaveFrequency
	if freq == 0 {
		freq = 1
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ortho := float64(x)*ocos + float64(y)*osin
			perturb := amp * math.Sin(ortho*freq)

			proj := (float64(x)*cos+float64(y)*sin+perturb-minP) / span
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
