// Package dispatch implements the event loop: it multiplexes the Wayland
// connection and the client command socket, routes compositor events to
// the right Wallpaper, and routes client requests into Clear/Query
// snapshots or an animator.Orchestrator transition.
package dispatch

import (
	"errors"

	"github.com/wlwallpaperd/wlwallpaperd/internal/protoconn"
)

// ClientConn is one accepted client connection: exactly one Request is read
// and exactly one Answer is written before the dispatcher closes it,
// matching the one-shot command-socket pattern.
type ClientConn interface {
	Fd() int
	ReadRequest() (protoconn.Request, error)
	WriteAnswer(protoconn.Answer) error
	Close() error
}

// Listener is the bound client socket. Its bring-up (bind, listen,
// exclusivity check, stale-socket removal) belongs to whatever constructs
// it; the loop only ever Accepts from it.
type Listener interface {
	Fd() int
	Accept() (ClientConn, error)
	Close() error
}

// ErrExiting is returned by Run when the loop stopped because Kill was
// requested or a shutdown signal fired, distinguishing a clean stop from a
// poll/socket failure.
var ErrExiting = errors.New("dispatch: exiting")
