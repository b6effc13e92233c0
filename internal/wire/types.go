// Package wire declares the collaborator boundary between the wallpaper
// core and the Wayland compositor. Per the core's scope, the wire codec
// itself — marshalling opcodes and file descriptors on the wl_display
// connection — is an external concern; this package only names the
// interfaces the core consumes. internal/wire/libwaylandconn holds a
// partial adapter over honnef.co/go/libwayland's cgo bindings; it
// implements only the connection step (see its package doc).
package wire

import "time"

// ObjectID identifies a bound Wayland protocol object.
type ObjectID uint32

// Transform mirrors the wl_output.transform enum: 0..3 are 0/90/180/270
// degree rotations, 4..7 are their flipped counterparts.
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Swapped reports whether this transform exchanges width and height.
func (t Transform) Swapped() bool {
	switch t {
	case Transform90, Transform270, TransformFlipped90, TransformFlipped270:
		return true
	default:
		return false
	}
}

// Valid reports whether t is one of the eight enumerated transforms.
func (t Transform) Valid() bool {
	return t >= TransformNormal && t <= TransformFlipped270
}

// Mode is a physical output mode as reported by wl_output.mode.
type Mode struct {
	Width, Height int32
}

// Scale is an output scale factor, expressed as either a whole wl_output
// scale or a wp_fractional_scale_v1 120ths-of-a-unit value.
type Scale struct {
	// Whole is the integer wl_output scale (>=1), used when Fractional is 0.
	Whole int32
	// Fractional is the wp_fractional_scale_v1 preferred_scale value in
	// 120ths (>=1), used in preference to Whole when non-zero.
	Fractional int32
}

// Float returns the scale as a floating point multiplier.
func (s Scale) Float() float64 {
	if s.Fractional > 0 {
		return float64(s.Fractional) / 120.0
	}
	if s.Whole > 0 {
		return float64(s.Whole)
	}
	return 1
}

// Registry is the global object table advertised by the compositor.
type Registry interface {
	// BindOutput binds a newly advertised wl_output global (version >= 4).
	BindOutput(name uint32, version uint32) (Output, error)
	// BindLayerShell binds zwlr_layer_shell_v1.
	BindLayerShell() (LayerShell, error)
	// BindCompositor binds wl_compositor.
	BindCompositor() (Compositor, error)
	// BindShm binds wl_shm.
	BindShm() (Shm, error)
	// BindViewporter binds wp_viewporter.
	BindViewporter() (Viewporter, error)
	// BindFractionalScaleManager binds wp_fractional_scale_manager_v1, if advertised.
	BindFractionalScaleManager() (FractionalScaleManager, error)
	// SetGlobalHandlers registers the registry.global/global_remove
	// callbacks. global reports every advertised interface by name,
	// including the singletons (compositor, shm, layer shell, ...); the
	// core only acts on "wl_output" and ignores the rest.
	SetGlobalHandlers(global func(name uint32, iface string, version uint32), remove func(name uint32))
}

// Display is the connection to the compositor.
type Display interface {
	// Fd returns the file descriptor to multiplex in the event loop's poll set.
	Fd() int
	// Dispatch processes any events already queued on the connection.
	Dispatch() error
	// Flush writes any pending outbound requests.
	Flush() error
	// Roundtrip blocks until the compositor has processed all requests sent
	// so far, used during the initial global-registration handshake.
	Roundtrip() error
	// Registry returns the bound registry.
	Registry() Registry
}

// Compositor creates surfaces and regions.
type Compositor interface {
	CreateSurface() (Surface, error)
	CreateRegion() (Region, error)
}

// Region is an opaque or input region attached to a surface.
type Region interface {
	Add(x, y, width, height int32)
	Destroy()
}

// Output is one advertised display output.
type Output interface {
	ID() ObjectID
	// SetHandlers registers callbacks for compositor-pushed events. Any
	// handler may be nil.
	SetHandlers(h OutputHandlers)
}

// OutputHandlers are the wl_output events the core reacts to.
type OutputHandlers struct {
	Geometry    func(transform Transform)
	Mode        func(mode Mode)
	Scale       func(factor int32)
	Name        func(name string)
	Description func(description string)
	Done        func()
}

// Surface is a wl_surface bound to a layer-shell role.
type Surface interface {
	ID() ObjectID
	Attach(buf Buffer, x, y int32) error
	DamageBuffer(x, y, width, height int32) error
	Commit() error
	Frame() (Callback, error)
	SetHandlers(enter, leave func(output Output), preferredScale func(factor int32), preferredTransform func(t Transform))
	Destroy() error
}

// Callback is a one-shot wl_callback, most often a frame callback.
type Callback interface {
	// SetDone registers the function invoked when the callback fires. The
	// callback fires at most once.
	SetDone(func(callbackData uint32))
	Destroy()
}

// Shm is the shared-memory pool factory.
type Shm interface {
	CreatePool(fd int, size int32) (ShmPool, error)
	SetFormatHandler(func(format uint32))
}

// ShmPool is a single shared-memory-backed allocation that buffers are
// carved out of.
type ShmPool interface {
	CreateBuffer(offset, width, height, stride int32, format uint32) (Buffer, error)
	Resize(size int32) error
	Destroy()
}

// Buffer is a wl_buffer: one shared-memory-backed frame ready to attach.
type Buffer interface {
	ID() ObjectID
	// SetRelease registers the function invoked when the compositor is done
	// reading this buffer and it may be reused.
	SetRelease(func())
	Destroy()
}

// Viewporter creates per-surface viewports for scaling the buffer into the
// surface's logical size.
type Viewporter interface {
	GetViewport(s Surface) (Viewport, error)
}

// Viewport programs the logical destination rectangle for a surface.
type Viewport interface {
	SetDestination(width, height int32) error
	Destroy()
}

// FractionalScaleManager creates per-surface fractional-scale objects.
type FractionalScaleManager interface {
	GetFractionalScale(s Surface) (FractionalScale, error)
}

// FractionalScale reports the compositor's preferred fractional scale.
type FractionalScale interface {
	SetPreferredScale(func(scale120 int32))
	Destroy()
}

// LayerShell creates layer-shell surfaces.
type LayerShell interface {
	GetLayerSurface(s Surface, output Output, layer Layer, namespace string) (LayerSurface, error)
}

// Layer mirrors zwlr_layer_shell_v1's layer enum. The daemon always uses
// LayerBackground.
type Layer int

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

// LayerSurface is a zwlr_layer_surface_v1.
type LayerSurface interface {
	SetSize(width, height uint32) error
	SetAnchor(anchor uint32) error
	SetExclusiveZone(zone int32) error
	SetHandlers(configure func(serial uint32, width, height uint32), closed func())
	AckConfigure(serial uint32) error
	Destroy() error
}

// DialTimeout bounds how long an adapter may take to connect to the
// compositor socket before giving up.
const DialTimeout = 5 * time.Second
