// Package socket implements the one-shot UNIX command socket the dispatcher
// accepts client requests on: bind, listen, stale-socket recovery, and a
// gob-encoded Request/Answer transport, following the
// gob.NewEncoder(conn)/gob.NewDecoder(conn) idiom other pack services use
// for net-transported values.
package socket

import (
	"encoding/gob"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/wlwallpaperd/wlwallpaperd/internal/dispatch"
	"github.com/wlwallpaperd/wlwallpaperd/internal/protoconn"
)

// dialTimeout bounds the exclusivity probe Listen performs against a
// pre-existing socket file before deciding it is stale.
const dialTimeout = 200 * time.Millisecond

// Listen binds path as a UNIX stream socket for the dispatcher to accept
// client connections on.
//
// If path already exists, Listen first tries to connect to it: a successful
// connection means another daemon instance already owns it, and Listen
// fails rather than stealing the socket out from under it. A connection
// refused/timed-out error means the file is stale (the owning process died
// without cleaning up), so the file is removed and binding proceeds.
//
// Parameters:
//   - path: the UNIX socket path to bind
//
// Returns:
//   - dispatch.Listener: the bound listener, ready to Accept
//   - error: error if another daemon owns path, or if bind/listen fails
func Listen(path string) (dispatch.Listener, error) {
	if _, err := os.Stat(path); err == nil {
		if probe, dialErr := net.DialTimeout("unix", path, dialTimeout); dialErr == nil {
			probe.Close()
			return nil, fmt.Errorf("socket: %s is already owned by a running daemon", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("socket: remove stale socket: %w", err)
		}
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("socket: listen: %w", err)
	}
	unixLn, ok := ln.(*net.UnixListener)
	if !ok {
		ln.Close()
		return nil, fmt.Errorf("socket: unexpected listener type %T", ln)
	}
	unixLn.SetUnlinkOnClose(true)

	return &listener{ln: unixLn, path: path}, nil
}

type listener struct {
	ln   *net.UnixListener
	path string
}

func (l *listener) Fd() int {
	f, err := l.ln.File()
	if err != nil {
		return -1
	}
	defer f.Close()
	return int(f.Fd())
}

func (l *listener) Accept() (dispatch.ClientConn, error) {
	c, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return &clientConn{c: c}, nil
}

func (l *listener) Close() error {
	return l.ln.Close()
}

type clientConn struct {
	c net.Conn
}

func (c *clientConn) Fd() int {
	uc, ok := c.c.(*net.UnixConn)
	if !ok {
		return -1
	}
	f, err := uc.File()
	if err != nil {
		return -1
	}
	defer f.Close()
	return int(f.Fd())
}

func (c *clientConn) ReadRequest() (protoconn.Request, error) {
	var req protoconn.Request
	if err := gob.NewDecoder(c.c).Decode(&req); err != nil {
		return protoconn.Request{}, fmt.Errorf("socket: decode request: %w", err)
	}
	return req, nil
}

func (c *clientConn) WriteAnswer(ans protoconn.Answer) error {
	if err := gob.NewEncoder(c.c).Encode(ans); err != nil {
		return fmt.Errorf("socket: encode answer: %w", err)
	}
	return nil
}

func (c *clientConn) Close() error {
	return c.c.Close()
}

var (
	_ dispatch.Listener   = (*listener)(nil)
	_ dispatch.ClientConn = (*clientConn)(nil)
)
