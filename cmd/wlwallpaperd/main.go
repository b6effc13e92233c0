// Command wlwallpaperd is the process entrypoint: it decodes the daemon's
// CLI surface, brings up logging, dials the compositor and the client
// socket, and runs the event loop until a shutdown signal or a Kill request
// stops it.
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wlwallpaperd/wlwallpaperd/internal/animator"
	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/config"
	"github.com/wlwallpaperd/wlwallpaperd/internal/dispatch"
	"github.com/wlwallpaperd/wlwallpaperd/internal/socket"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wire/libwaylandconn"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "wlwallpaperd:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], os.Getenv("WLWALLPAPERD_CONFIG"))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := newLogger(cfg.Quiet)

	display, err := libwaylandconn.Dial(log)
	if err != nil {
		return fmt.Errorf("dial compositor: %w", err)
	}

	ln, err := socket.Listen(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("bind socket: %w", err)
	}
	defer ln.Close()

	orch := animator.New(log, passthroughDecompressor{})

	var dispatchOpts []dispatch.Option
	if cfg.NoCache {
		dispatchOpts = append(dispatchOpts, dispatch.WithNoCache(true))
	}
	if cfg.Format != nil {
		dispatchOpts = append(dispatchOpts, dispatch.WithForcedFormat(*cfg.Format))
	}

	d, err := dispatch.New(log, display, ln, orch, dispatchOpts...)
	if err != nil {
		return fmt.Errorf("init dispatcher: %w", err)
	}

	quit := make(chan struct{})
	var quitOnce sync.Once
	signalQuit := func() { quitOnce.Do(func() { close(quit) }) }

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		s := <-sig
		log.Info().Str("signal", s.String()).Msg("shutting down")
		signalQuit()
	}()

	notifyReady(log)

	log.Info().Str("socket", cfg.SocketPath).Msg("wlwallpaperd started")
	runErr := d.Run(quit)
	if runErr != nil && runErr != dispatch.ErrExiting {
		return fmt.Errorf("event loop: %w", runErr)
	}
	return nil
}

func newLogger(quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if quiet {
		level = zerolog.ErrorLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// notifyReady emits a one-shot systemd sd_notify(READY=1) if NOTIFY_SOCKET
// is set, i.e. when the unit type is "notify". No pack dependency implements
// this narrow a protocol, so it is written directly against the documented
// datagram wire format (see DESIGN.md).
func notifyReady(log zerolog.Logger) {
	addr := os.Getenv("NOTIFY_SOCKET")
	if addr == "" {
		return
	}
	conn, err := net.Dial("unixgram", addr)
	if err != nil {
		log.Debug().Err(err).Msg("sd_notify dial failed")
		return
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("READY=1")); err != nil {
		log.Debug().Err(err).Msg("sd_notify write failed")
	}
}

// passthroughDecompressor is the frame decompressor wired into the
// orchestrator. The compression format itself (how animation frame bytes
// on the wire are packed) is an external collaborator's concern; image
// animation frames already arrive decoded to the negotiated pixel format
// by the time they reach the daemon, so decompression is a straight copy.
type passthroughDecompressor struct{}

func (passthroughDecompressor) Decompress(frame []byte, canvas []byte, format common.PixelFormat) error {
	n := copy(canvas, frame)
	if n < len(frame) {
		return fmt.Errorf("decompress: canvas too small: got %d, need %d", len(canvas), len(frame))
	}
	return nil
}
