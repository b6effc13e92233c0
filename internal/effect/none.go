package effect

import "github.com/wlwallpaperd/wlwallpaperd/internal/common"

// noneEffect blits the target directly, finishing in a single frame.
type noneEffect struct{}

func (e *noneEffect) Apply(dst, target []byte, width, height int, format common.PixelFormat, progress float64) bool {
	copy(dst, target)
	return true
}
