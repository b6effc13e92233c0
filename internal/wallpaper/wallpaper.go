package wallpaper

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wire"
)

// Wallpaper owns one output's layer-shell surface and double-buffered
// back store. The event-loop thread has exclusive mutation rights during
// dispatch; a transition or animation worker holding the currently
// writable buffer has exclusive write access to its pixels between
// release and commit, per the single-writer discipline.
type Wallpaper interface {
	// SetBgInfo records either a solid color or an image path as the
	// current background label, for Query to report.
	SetBgInfo(bg Background)
	// BgInfo returns the last-recorded background label.
	BgInfo() Background

	// Clear fills the writable canvas with color. Returns
	// ErrBufferUnavailable if no writable buffer exists yet.
	Clear(color common.Color) error

	// CanvasChange hands fn a writable canvas slice sized
	// width*height*format.BytesPerPixel(). Returns ErrBufferUnavailable if
	// no writable buffer is currently free; fn's own error (e.g. a decode
	// failure) is returned unchanged.
	CanvasChange(fn func([]byte) error) error

	// CommitFrame attaches the current writable buffer, damages the full
	// surface, and commits — the compositor owns the buffer from this
	// call until its release event arrives.
	CommitFrame() error

	// Dimensions returns the logical pixel dimensions after applying
	// scale and transform (swapped for 90/270-degree transforms).
	Dimensions() (width, height int)

	// Format returns the pixel layout this wallpaper's canvases are
	// packed in, fixed at daemon startup.
	Format() common.PixelFormat

	// Scale returns the current effective scale factor, combining a
	// fractional scale over the whole-number one when present.
	Scale() float64

	// NewAnimationToken issues a new token, strictly greater than any
	// issued before, and makes it the wallpaper's current token.
	NewAnimationToken() AnimationToken
	// HasAnimationToken reports whether t is still the most recently
	// issued token.
	HasAnimationToken(t AnimationToken) bool

	// CommitSurfaceChanges is called once an output's configure sequence
	// completes: it computes the buffer size from (mode, scale,
	// transform), (re)allocates the shm pool if the size changed, and
	// restores the cached image (if useCache and a cache entry exists) or
	// clears to black. Returns true if this change invalidates any
	// in-flight animation (i.e. the buffer was reallocated).
	CommitSurfaceChanges(useCache bool) (invalidated bool, err error)

	// SetName records the output's advertised name (from wl_output.name).
	SetName(name string)
	// HasName reports whether this wallpaper's output is named name (from
	// wl_output.name), used to route Clear/Img requests by output name.
	HasName(name string) bool
	// Name returns the output's advertised name, or "" if not yet known.
	Name() string
	// HasOutput reports identity against a wire.Output handle.
	HasOutput(o wire.Output) bool
	// HasSurface reports identity against a wire.Surface handle.
	HasSurface(s wire.Surface) bool
	// HasLayerSurface reports identity against a wire.LayerSurface handle.
	HasLayerSurface(ls wire.LayerSurface) bool
	// HasFractionalScale reports identity against a fractional-scale handle.
	HasFractionalScale(fs wire.FractionalScale) bool

	// FrameCallbackCompleted clears the pending-callback flag and sets
	// draw-ready, called when a wl_callback.done event fires for this
	// wallpaper's in-flight frame callback.
	FrameCallbackCompleted()
	// RequestFrameCallback registers a new frame callback on the surface
	// and marks draw-ready false until it fires.
	RequestFrameCallback() error
	// IsDrawReady reports configured ∧ writable-buffer-available ∧ no
	// pending frame callback.
	IsDrawReady() bool

	// SetTransform records a compositor-reported transform. Invalid
	// values (outside 0..7) are logged and ignored.
	SetTransform(t wire.Transform)
	// SetScale records a compositor-reported whole-number scale. A
	// reported scale of zero is logged and ignored.
	SetScale(whole int32)
	// SetFractionalScale records a compositor-reported fractional scale
	// in 120ths. Zero is logged and ignored.
	SetFractionalScale(scale120 int32)
	// SetMode records the output's physical mode.
	SetMode(mode wire.Mode)
	// MarkConfigured records that the layer-shell configure sequence has
	// completed for the current (mode, scale, transform).
	MarkConfigured()

	// Destroy tears down this wallpaper's layer surface, viewport,
	// fractional scale, and buffers.
	Destroy()
}

// wallpaper is the implementation of the Wallpaper interface.
type wallpaper struct {
	mu  sync.Mutex
	log zerolog.Logger

	output          wire.Output
	name            string
	surface         wire.Surface
	layerSurface    wire.LayerSurface
	viewport        wire.Viewport
	fractionalScale wire.FractionalScale
	shm             wire.Shm

	format PixelFormatSource

	mode      wire.Mode
	transform wire.Transform
	scale     wire.Scale

	configured bool
	drawReady  bool

	pool        pool
	writableIdx int

	pendingCallback wire.Callback

	bg    Background
	cache ImageCache

	animToken AnimationToken
}

// PixelFormatSource supplies the process-wide negotiated pixel format,
// fixed at startup by the shm format handshake ("pixel-format
// selection [is] process-wide state with a one-shot initializer").
type PixelFormatSource interface {
	Format() common.PixelFormat
}

// staticFormat is the trivial PixelFormatSource used outside of the full
// daemon wiring (tests, single-format configurations).
type staticFormat common.PixelFormat

func (s staticFormat) Format() common.PixelFormat { return common.PixelFormat(s) }

// StaticFormat wraps a fixed PixelFormat as a PixelFormatSource.
func StaticFormat(f common.PixelFormat) PixelFormatSource { return staticFormat(f) }

var _ Wallpaper = (*wallpaper)(nil)

// New creates a Wallpaper bound to output, with its layer-shell surface
// and viewport already requested from the compositor. Panics if output or
// surface is nil: a missing required collaborator here is a programmer
// error, not a runtime one.
//
// Parameters:
//   - output: the compositor output this wallpaper displays on
//   - surface: a fresh wl_surface already given the background layer role
//   - shm: the bound wl_shm, used to (re)allocate buffers on reconfigure
//   - options: functional options configuring the new wallpaper
//
// Returns:
//   - Wallpaper: the newly created wallpaper, not yet configured
func New(output wire.Output, surface wire.Surface, shm wire.Shm, options ...Option) Wallpaper {
	if output == nil {
		panic("wallpaper: New requires a non-nil Output")
	}
	if surface == nil {
		panic("wallpaper: New requires a non-nil Surface")
	}

	w := &wallpaper{
		output:      output,
		surface:     surface,
		shm:         shm,
		format:      StaticFormat(common.XRGB8888),
		scale:       wire.Scale{Whole: 1},
		writableIdx: -1,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *wallpaper) SetBgInfo(bg Background) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bg = bg
}

func (w *wallpaper) BgInfo() Background {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bg
}

func (w *wallpaper) Format() common.PixelFormat {
	return w.format.Format()
}

func (w *wallpaper) Scale() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale.Float()
}

func (w *wallpaper) Clear(color common.Color) error {
	return w.CanvasChange(func(canvas []byte) error {
		width, height := w.physicalDimensions()
		common.Fill(canvas, int(width), int(height), color, w.format.Format())
		return nil
	})
}

func (w *wallpaper) CanvasChange(fn func([]byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.pool.writableSlot()
	if idx < 0 {
		return ErrBufferUnavailable
	}
	slot := w.pool.slots[idx]
	slot.writable = false
	w.writableIdx = idx
	return fn(w.pool.bytes(idx))
}

// writableIdx tracks which slot CanvasChange last handed out, so
// CommitFrame knows which buffer to attach without re-locating it (the
// slot itself was flipped to non-writable the moment it was handed out).
func (w *wallpaper) CommitFrame() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.writableIdx
	if idx < 0 || idx > 1 || w.pool.slots[idx] == nil {
		return fmt.Errorf("wallpaper: CommitFrame with no pending writable buffer")
	}
	slot := w.pool.slots[idx]
	slot.holders++

	if err := w.surface.Attach(slot.wbuf, 0, 0); err != nil {
		return fmt.Errorf("wallpaper: attach: %w", err)
	}
	if err := w.surface.DamageBuffer(0, 0, w.pool.width, w.pool.height); err != nil {
		return fmt.Errorf("wallpaper: damage: %w", err)
	}
	if err := w.surface.Commit(); err != nil {
		return fmt.Errorf("wallpaper: commit: %w", err)
	}
	return nil
}

func (w *wallpaper) Dimensions() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.logicalDimensions()
}

// logicalDimensions computes (mode.w/scale, mode.h/scale), swapped for
// 90/270-degree transforms, per the scale-and-transform policy.
// Callers must hold w.mu.
func (w *wallpaper) logicalDimensions() (int, int) {
	s := w.scale.Float()
	if s <= 0 {
		s = 1
	}
	lw := int(float64(w.mode.Width) / s)
	lh := int(float64(w.mode.Height) / s)
	if w.transform.Swapped() {
		lw, lh = lh, lw
	}
	return lw, lh
}

// physicalDimensions returns the buffer's pixel dimensions: the mode's raw
// width/height, independent of transform (the viewport, not the buffer,
// carries the logical/transformed destination).
func (w *wallpaper) physicalDimensions() (int32, int32) {
	return w.mode.Width, w.mode.Height
}

func (w *wallpaper) NewAnimationToken() AnimationToken {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.animToken++
	return w.animToken
}

func (w *wallpaper) HasAnimationToken(t AnimationToken) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.animToken == t
}

func (w *wallpaper) CommitSurfaceChanges(useCache bool) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	width, height := w.physicalDimensions()
	if width <= 0 || height <= 0 {
		return false, fmt.Errorf("wallpaper: CommitSurfaceChanges with zero-sized mode")
	}

	sizeChanged := width != w.pool.width || height != w.pool.height || w.format.Format() != w.pool.format
	if sizeChanged {
		if err := w.pool.allocate(w.shm, width, height, w.format.Format()); err != nil {
			return false, fmt.Errorf("wallpaper: allocate buffers: %w", err)
		}
	}

	if w.viewport != nil {
		lw, lh := w.logicalDimensions()
		if err := w.viewport.SetDestination(int32(lw), int32(lh)); err != nil {
			return sizeChanged, fmt.Errorf("wallpaper: set viewport destination: %w", err)
		}
	}

	restored := false
	if useCache && w.cache != nil && w.bg.Kind == BgImage && w.bg.Path != "" {
		if pixels, err := w.cache.Load(w.bg.Path, int(width), int(height), w.format.Format()); err == nil {
			_ = w.canvasChangeLocked(func(dst []byte) error {
				copy(dst, pixels)
				return nil
			})
			restored = true
		} else {
			w.log.Debug().Err(err).Str("path", w.bg.Path).Msg("no usable cache entry, clearing to black")
		}
	}
	if !restored {
		_ = w.canvasChangeLocked(func(dst []byte) error {
			common.Fill(dst, int(width), int(height), common.Color{}, w.format.Format())
			return nil
		})
	}

	w.configured = true
	w.drawReady = w.pendingCallback == nil
	return sizeChanged, nil
}

// canvasChangeLocked is CanvasChange's body, for callers that already
// hold w.mu (CommitSurfaceChanges runs during dispatch, already exclusive).
func (w *wallpaper) canvasChangeLocked(fn func([]byte) error) error {
	idx := w.pool.writableSlot()
	if idx < 0 {
		return ErrBufferUnavailable
	}
	slot := w.pool.slots[idx]
	slot.writable = false
	w.writableIdx = idx
	return fn(w.pool.bytes(idx))
}

func (w *wallpaper) SetName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.name = name
}

func (w *wallpaper) HasName(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.name != "" && w.name == name
}

func (w *wallpaper) Name() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.name
}

func (w *wallpaper) HasOutput(o wire.Output) bool { return w.output == o }

func (w *wallpaper) HasSurface(s wire.Surface) bool { return w.surface == s }

func (w *wallpaper) HasLayerSurface(ls wire.LayerSurface) bool { return w.layerSurface == ls }

func (w *wallpaper) HasFractionalScale(fs wire.FractionalScale) bool {
	return w.fractionalScale == fs
}

func (w *wallpaper) FrameCallbackCompleted() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingCallback = nil
	w.drawReady = w.configured && w.pool.writableSlot() >= 0
}

func (w *wallpaper) RequestFrameCallback() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	cb, err := w.surface.Frame()
	if err != nil {
		return fmt.Errorf("wallpaper: request frame callback: %w", err)
	}
	cb.SetDone(func(uint32) { w.FrameCallbackCompleted() })
	w.pendingCallback = cb
	w.drawReady = false
	return nil
}

func (w *wallpaper) IsDrawReady() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.configured && w.pendingCallback == nil && w.pool.writableSlot() >= 0
}

func (w *wallpaper) SetTransform(t wire.Transform) {
	if !t.Valid() {
		w.log.Debug().Int("transform", int(t)).Msg("ignoring invalid transform from compositor")
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transform = t
}

func (w *wallpaper) SetScale(whole int32) {
	if whole <= 0 {
		w.log.Debug().Int32("scale", whole).Msg("ignoring zero/negative scale from compositor")
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scale.Whole = whole
}

func (w *wallpaper) SetFractionalScale(scale120 int32) {
	if scale120 <= 0 {
		w.log.Debug().Int32("scale120", scale120).Msg("ignoring zero fractional scale from compositor")
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scale.Fractional = scale120
}

func (w *wallpaper) SetMode(mode wire.Mode) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = mode
}

func (w *wallpaper) MarkConfigured() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.configured = true
}

func (w *wallpaper) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.pool.slots {
		w.pool.destroySlot(i)
	}
	if w.viewport != nil {
		w.viewport.Destroy()
	}
	if w.fractionalScale != nil {
		w.fractionalScale.Destroy()
	}
	if w.layerSurface != nil {
		_ = w.layerSurface.Destroy()
	}
	if w.surface != nil {
		_ = w.surface.Destroy()
	}
}
