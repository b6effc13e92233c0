package effect

import "github.com/wlwallpaperd/wlwallpaperd/internal/common"

// Effect is one transition algorithm. Implementations mutate dst in place,
// moving it toward target as progress advances; the step scheduler in
// internal/transition calls Apply once per frame with a monotonically
// increasing progress and treats the returned bool as "the canvas now
// equals target bit-for-bit".
//
// dst and target must have identical dimensions and the same pixel format;
// callers that have already validated this (internal/animator does, by
// rejecting a mismatched image before constructing a driver) may rely on
// Apply not re-checking it.
type Effect interface {
	// Apply advances dst toward target for the given progress in [0,1].
	//
	// Parameters:
	//   - dst: the canvas to mutate, width*height*format.BytesPerPixel() bytes
	//   - target: the destination image bytes, same dimensions and format
	//   - width, height: canvas dimensions in pixels
	//   - format: the pixel layout both dst and target are packed in
	//   - progress: the current transition progress, in [0,1]
	//
	// Returns:
	//   - bool: true once dst equals target bit-for-bit
	Apply(dst, target []byte, width, height int, format common.PixelFormat, progress float64) bool
}

// New constructs the Effect implementation named by d.Kind.
//
// Parameters:
//   - d: the transition parameters
//
// Returns:
//   - Effect: the constructed effect, ready to Apply frame by frame
func New(d Descriptor) Effect {
	switch d.Kind {
	case Simple:
		return &simpleEffect{d: d}
	case Fade:
		return &fadeEffect{d: d}
	case Wipe:
		return &wipeEffect{d: d}
	case Wave:
		return &waveEffect{d: d}
	case Grow:
		return &growEffect{d: d}
	case Outer:
		return &outerEffect{d: d}
	default:
		return &noneEffect{}
	}
}
