// Package common holds small data types and scalar helpers shared across the
// wallpaper daemon's packages — the pixel format enum, per-channel blend
// math, and generic helpers that don't belong to any one component.
package common

import "fmt"

// PixelFormat identifies the in-memory layout of a wallpaper's shared-memory
// canvas. The daemon negotiates exactly one of these with the compositor at
// startup (via wl_shm's format events) and every canvas write and decoded
// frame thereafter is interpreted through it.
type PixelFormat int

const (
	// XRGB8888 is 32-bit little-endian 0xXXRRGGBB with the high byte unused.
	XRGB8888 PixelFormat = iota
	// XBGR8888 is 32-bit little-endian 0xXXBBGGRR with the high byte unused.
	XBGR8888
	// RGB888 is 24-bit packed bytes in R, G, B order.
	RGB888
	// BGR888 is 24-bit packed bytes in B, G, R order.
	BGR888
)

// String renders the format the way wl_shm format names read.
func (f PixelFormat) String() string {
	switch f {
	case XRGB8888:
		return "XRGB8888"
	case XBGR8888:
		return "XBGR8888"
	case RGB888:
		return "RGB888"
	case BGR888:
		return "BGR888"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// BytesPerPixel returns the stride contribution of one pixel in this format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case XRGB8888, XBGR8888:
		return 4
	case RGB888, BGR888:
		return 3
	default:
		return 4
	}
}
