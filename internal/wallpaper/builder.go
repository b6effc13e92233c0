package wallpaper

import (
	"github.com/rs/zerolog"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wire"
)

// Option configures a wallpaper at construction time: each option closes
// over the value it wants to set and is applied in the order passed to New.
type Option func(w *wallpaper)

// WithLogger attaches a logger. Wallpapers default to a disabled logger
// when this option is omitted.
func WithLogger(log zerolog.Logger) Option {
	return func(w *wallpaper) {
		w.log = log
	}
}

// WithLayerSurface attaches the layer-shell surface role, which Destroy
// tears down. It does not register the configure/closed handlers; the
// caller does.
func WithLayerSurface(ls wire.LayerSurface) Option {
	return func(w *wallpaper) {
		w.layerSurface = ls
	}
}

// WithViewport attaches a wp_viewport for this wallpaper's surface.
func WithViewport(vp wire.Viewport) Option {
	return func(w *wallpaper) {
		w.viewport = vp
	}
}

// WithFractionalScale attaches a wp_fractional_scale_v1 object.
func WithFractionalScale(fs wire.FractionalScale) Option {
	return func(w *wallpaper) {
		w.fractionalScale = fs
	}
}

// WithFormat fixes the pixel format this wallpaper's canvases use. Defaults
// to XRGB8888 when omitted.
func WithFormat(f common.PixelFormat) Option {
	return func(w *wallpaper) {
		w.format = StaticFormat(f)
	}
}

// WithFormatSource attaches a shared, process-wide format source instead of
// a value fixed at construction time.
func WithFormatSource(src PixelFormatSource) Option {
	return func(w *wallpaper) {
		w.format = src
	}
}

// WithImageCache attaches the on-disk image cache consulted on reconfigure.
func WithImageCache(cache ImageCache) Option {
	return func(w *wallpaper) {
		w.cache = cache
	}
}

// WithName pre-seeds the output name before the first wl_output.name event
// arrives, useful in tests that never drive a real event loop.
func WithName(name string) Option {
	return func(w *wallpaper) {
		w.name = name
	}
}

// WithBackground pre-seeds the reported background label.
func WithBackground(bg Background) Option {
	return func(w *wallpaper) {
		w.bg = bg
	}
}
