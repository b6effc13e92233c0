// Package wallpaper implements the per-output state machine: configuration
// handshake with the compositor, scale/transform bookkeeping, the
// double-buffered shared-memory canvas, and frame-callback pacing.
package wallpaper

import (
	"errors"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
)

// AnimationToken is a monotonically increasing generation counter. A
// worker that started against one token self-prunes once the wallpaper's
// current token no longer matches, e.g. because a newer request
// superseded it.
type AnimationToken uint64

// BgKind distinguishes the two backgrounds a wallpaper can report via
// Query: a solid color or a decoded image.
type BgKind int

const (
	BgColor BgKind = iota
	BgImage
)

// Background is the label a wallpaper reports for Query and restores from
// cache on reconfigure.
type Background struct {
	Kind  BgKind
	Color common.Color
	Path  string
}

// ImageCache loads the on-disk cache of a wallpaper's last image, used by
// CommitSurfaceChanges to repaint after a resize/rescale without
// re-requesting the image from a client. Caching itself (the file format,
// write side) is an external on-disk-cache collaborator; the
// core only consumes this read interface.
type ImageCache interface {
	// Load returns the cached image's pixel bytes for the given path at
	// the given dimensions and format, or an error if no usable cache
	// entry exists.
	Load(path string, width, height int, format common.PixelFormat) ([]byte, error)
}

// ErrBufferUnavailable is returned by CanvasChange when no writable buffer
// is currently free (the other buffer is still held by the compositor).
var ErrBufferUnavailable = errors.New("wallpaper: no writable buffer available")

// ErrNotConfigured reports an output whose layer-shell configure sequence
// has not completed. No Wallpaper method returns it: operations on an
// unconfigured output report ErrBufferUnavailable instead.
var ErrNotConfigured = errors.New("wallpaper: output not yet configured")
