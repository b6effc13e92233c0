package effect

import "github.com/wlwallpaperd/wlwallpaperd/internal/common"

// fadeEffect linearly alpha-blends from the canvas as it stood at the start
// of the transition toward target, with the blend factor eased along a
// bezier curve rather than advancing linearly with progress.
type fadeEffect struct {
	d Descriptor

	// start caches the canvas's pixels the first time Apply runs, since the
	// blend must be computed against the original image, not the
	// previous frame's partially-blended result (which would double-apply
	// the ease curve).
	start []byte
}

func (e *fadeEffect) Apply(dst, target []byte, width, height int, format common.PixelFormat, progress float64) bool {
	if e.start == nil {
		e.start = make([]byte, len(dst))
		copy(e.start, dst)
	}

	alpha := evalBezier(e.d.Bezier, progress)

	n := width * height
	for i := 0; i < n; i++ {
		sr, sg, sb := common.ReadPixel(e.start, i, format)
		tr, tg, tb := common.ReadPixel(target, i, format)

		nr := common.LerpByte(sr, tr, alpha)
		ng := common.LerpByte(sg, tg, alpha)
		nb := common.LerpByte(sb, tb, alpha)

		common.WritePixel(dst, i, nr, ng, nb, format)
	}
	return progress >= 1
}
