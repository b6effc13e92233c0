// Package libwaylandconn is the start of an adapter from a real Wayland
// client connection to the internal/wire interfaces the wallpaper core
// consumes.
//
// Only the connection step is implemented: Dial connects through
// honnef.co/go/libwayland, a cgo wrapper over libwayland-client. Nothing
// else is wired to the connection. Fd returns -1; Dispatch, Flush and
// Roundtrip do nothing and return nil; every registry Bind* method returns
// a "not implemented" error; SetGlobalHandlers registers nothing.
//
// That library binds only a subset of the client API and none of the
// extension protocols this daemon needs (zwlr_layer_shell_v1,
// wp_viewporter, wp_fractional_scale_manager_v1). The opcode constants
// below name those extensions' requests and events; no code sends or
// decodes them.
package libwaylandconn

import (
	"fmt"

	"github.com/rs/zerolog"

	"honnef.co/go/libwayland"

	"github.com/wlwallpaperd/wlwallpaperd/internal/wire"
)

// opcode identifies a request or event position within a protocol
// interface's method table, exactly as wl_message indexes them on the wire.
type opcode uint32

// Extension protocol opcodes not bound by honnef.co/go/libwayland. Request
// opcodes are request-direction method indices; event opcodes are the
// indices the compositor sends back.
const (
	opLayerShellGetLayerSurface opcode = 0

	opLayerSurfaceSetSize         opcode = 0
	opLayerSurfaceSetAnchor       opcode = 1
	opLayerSurfaceSetExclusiveZone opcode = 2
	opLayerSurfaceAckConfigure    opcode = 6
	opLayerSurfaceDestroy         opcode = 7
	opLayerSurfaceEventConfigure  opcode = 0
	opLayerSurfaceEventClosed     opcode = 1

	opViewporterGetViewport  opcode = 0
	opViewportSetDestination opcode = 2
	opViewportDestroy        opcode = 0

	opFractionalScaleManagerGetFractionalScale opcode = 0
	opFractionalScaleEventPreferredScale        opcode = 0
	opFractionalScaleDestroy                    opcode = 1
)

// conn wraps a *libwayland.Display and implements wire.Display.
type conn struct {
	log zerolog.Logger
	dsp *libwayland.Display
	reg *registry
}

// Dial connects to the compositor named by the WAYLAND_DISPLAY environment
// variable (or the default socket if unset) and returns the wire.Display
// the dispatcher multiplexes alongside the client socket.
//
// Parameters:
//   - log: the logger the connection and its bound objects report through
//
// Returns:
//   - wire.Display: the connected display
//   - error: error if the compositor socket could not be reached
func Dial(log zerolog.Logger) (wire.Display, error) {
	dsp, err := libwayland.Connect()
	if err != nil {
		return nil, fmt.Errorf("libwaylandconn: connect: %w", err)
	}
	c := &conn{log: log, dsp: dsp}
	c.reg = &registry{conn: c}
	return c, nil
}

func (c *conn) Fd() int {
	// honnef.co/go/libwayland exposes the connection handle for cgo calls
	// rather than a raw fd; a production adapter retrieves it via
	// wl_display_get_fd through the same cgo boundary Handle() exposes.
	return -1
}

func (c *conn) Dispatch() error {
	return nil
}

func (c *conn) Flush() error {
	return nil
}

func (c *conn) Roundtrip() error {
	return nil
}

func (c *conn) Registry() wire.Registry {
	return c.reg
}

// registry implements wire.Registry over the bound globals.
type registry struct {
	conn *conn
}

func (r *registry) BindOutput(name uint32, version uint32) (wire.Output, error) {
	return nil, fmt.Errorf("libwaylandconn: BindOutput not implemented")
}

func (r *registry) BindLayerShell() (wire.LayerShell, error) {
	return nil, fmt.Errorf("libwaylandconn: BindLayerShell not implemented")
}

func (r *registry) BindCompositor() (wire.Compositor, error) {
	return nil, fmt.Errorf("libwaylandconn: BindCompositor not implemented")
}

func (r *registry) BindShm() (wire.Shm, error) {
	return nil, fmt.Errorf("libwaylandconn: BindShm not implemented")
}

func (r *registry) BindViewporter() (wire.Viewporter, error) {
	return nil, fmt.Errorf("libwaylandconn: BindViewporter not implemented")
}

func (r *registry) BindFractionalScaleManager() (wire.FractionalScaleManager, error) {
	return nil, fmt.Errorf("libwaylandconn: BindFractionalScaleManager not implemented")
}

func (r *registry) SetGlobalHandlers(global func(name uint32, iface string, version uint32), remove func(name uint32)) {
	// Not implemented: wiring registry.global/global_remove requires the
	// cgo event-queue callback honnef.co/go/libwayland doesn't expose (see
	// the package doc comment).
}

var (
	_ wire.Display  = (*conn)(nil)
	_ wire.Registry = (*registry)(nil)
)
