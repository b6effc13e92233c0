package effect

import (
	"math"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
)

// growEffect reveals the target through a circle centered at d.Position
// that expands outward as progress advances.
type growEffect struct {
	d Descriptor
}

// maxRadius returns the distance from center to the farthest canvas corner,
// so radius==maxRadius guarantees full coverage.
func maxRadius(width, height int, center Position, invertY bool) (cx, cy, r float64) {
	cx = center.X * float64(width)
	cy = center.Y * float64(height)
	if invertY {
		cy = float64(height) - cy
	}
	corners := [4][2]float64{
		{0, 0}, {float64(width), 0}, {0, float64(height)}, {float64(width), float64(height)},
	}
	for _, c := range corners {
		dx, dy := c[0]-cx, c[1]-cy
		d := math.Hypot(dx, dy)
		if d > r {
			r = d
		}
	}
	return
}

func (e *growEffect) Apply(dst, target []byte, width, height int, format common.PixelFormat, progress float64) bool {
	if progress >= 1 {
		copy(dst, target)
		return true
	}

	cx, cy, rMax := maxRadius(width, height, e.d.Position, e.d.InvertY)
	radius := progress * rMax
	band := e.d.BarWidth * rMax

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			i := y*width + x

			f := circleSample(d, radius, band)
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

// circleSample returns the target-blend factor for a pixel at distance d
// from the circle's center, given the current radius and a soft band width
// straddling the boundary. inside==1 (fully target), outside==0.
func circleSample(d, radius, band float64) float64 {
	if band <= 0 {
		if d <= radius {
			return 1
		}
		return 0
	}
	lo := radius - band/2
	hi := radius + band/2
	if d <= lo {
		return 1
	}
	if d >= hi {
		return 0
	}
	return (hi - d) / band
}
