// Package animator spawns and supervises the worker goroutines that carry
// one Img request from its transition through an optional trailing looped
// animation, across however many outputs the request targeted.
package animator

import (
	"time"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wallpaper"
)

// Target is the subset of wallpaper.Wallpaper a worker needs: it is
// exactly wallpaper.Wallpaper, named separately so transition/animation
// worker code reads in terms of what it actually calls.
type Target = wallpaper.Wallpaper

// Image is one target image of an Img request: its pixel bytes, the path
// reported back via Query, and its declared dimensions (checked against
// every target wallpaper's own dimensions before a transition starts).
type Image struct {
	Bytes  []byte
	Path   string
	Width  int
	Height int
}

// AnimationFrame is one frame of a decoded, looped animation.
type AnimationFrame struct {
	Data     []byte
	Duration time.Duration
}

// Sequence is a decoded animation: a non-empty, indefinitely looped list of
// frames.
type Sequence struct {
	Frames []AnimationFrame
}

// Decompressor unpacks one animation frame's compressed bytes directly into
// a wallpaper's canvas. This is an external decoder collaborator's
// scope boundary; the core only consumes this interface.
type Decompressor interface {
	Decompress(frame []byte, canvas []byte, format common.PixelFormat) error
}
