package dispatch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/wlwallpaperd/wlwallpaperd/internal/animator"
	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/frame/profiler"
	"github.com/wlwallpaperd/wlwallpaperd/internal/protoconn"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wallpaper"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wire"
)

// Dispatcher owns every Wallpaper, the Wayland connection, and the client
// socket, and is the only goroutine that issues Wayland requests outside of
// an in-flight animator worker's own canvas commits (see
// internal/animator — workers attach/damage/commit their own target
// wallpaper directly, serialized against this loop by each wallpaper's
// single-writer buffer discipline rather than by a global lock).
type Dispatcher struct {
	log zerolog.Logger

	display    wire.Display
	registry   wire.Registry
	compositor wire.Compositor
	shm        wire.Shm
	layerShell wire.LayerShell
	viewporter wire.Viewporter
	fracMgr    wire.FractionalScaleManager

	listener Listener
	cache    wallpaper.ImageCache
	noCache  bool

	orchestrator *animator.Orchestrator

	formatSource *processFormat

	mu      sync.Mutex
	outputs []entry

	exiting bool

	prof *profiler.Profiler
}

// processFormat is the one-shot, process-wide pixel format negotiated from
// the compositor's wl_shm.format events, shared by every wallpaper.
type processFormat struct {
	mu  sync.Mutex
	set bool
	f   common.PixelFormat
}

func (p *processFormat) Format() common.PixelFormat {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.set {
		return common.XRGB8888
	}
	return p.f
}

func (p *processFormat) offer(shmFormat uint32) {
	f, ok := pixelFormatFromShm(shmFormat)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.set {
		return
	}
	p.f = f
	p.set = true
}

func pixelFormatFromShm(v uint32) (common.PixelFormat, bool) {
	switch v {
	case 1:
		return common.XRGB8888, true
	case 0x34324258:
		return common.XBGR8888, true
	case 0x34324752:
		return common.RGB888, true
	case 0x34324742:
		return common.BGR888, true
	default:
		return 0, false
	}
}

// Option configures a Dispatcher at construction time.
type Option func(d *Dispatcher)

// WithImageCache attaches the on-disk image cache new wallpapers restore
// from after a reconfigure.
func WithImageCache(cache wallpaper.ImageCache) Option {
	return func(d *Dispatcher) { d.cache = cache }
}

// WithNoCache disables cache restoration entirely, matching the --no-cache
// CLI flag.
func WithNoCache(noCache bool) Option {
	return func(d *Dispatcher) { d.noCache = noCache }
}

// WithForcedFormat overrides the negotiated pixel format instead of
// deriving it from the compositor's wl_shm.format events.
func WithForcedFormat(f common.PixelFormat) Option {
	return func(d *Dispatcher) {
		d.formatSource.set = true
		d.formatSource.f = f
	}
}

// New binds every global the daemon needs and wires the registry's
// global/global_remove handlers, ready for Run.
//
// Parameters:
//   - log: the root logger
//   - display: the Wayland connection, already Dial'd
//   - listener: the bound client socket
//   - orchestrator: the transition/animation orchestrator
//
// Returns:
//   - *Dispatcher: ready to Run
//   - error: error if a required global could not be bound
func New(log zerolog.Logger, display wire.Display, listener Listener, orchestrator *animator.Orchestrator, opts ...Option) (*Dispatcher, error) {
	registry := display.Registry()

	d := &Dispatcher{
		log:          log,
		display:      display,
		registry:     registry,
		listener:     listener,
		orchestrator: orchestrator,
		formatSource: &processFormat{},
		prof:         profiler.New(log),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := display.Roundtrip(); err != nil {
		return nil, fmt.Errorf("dispatch: initial roundtrip: %w", err)
	}

	compositor, err := registry.BindCompositor()
	if err != nil {
		return nil, fmt.Errorf("dispatch: bind compositor: %w", err)
	}
	shm, err := registry.BindShm()
	if err != nil {
		return nil, fmt.Errorf("dispatch: bind shm: %w", err)
	}
	layerShell, err := registry.BindLayerShell()
	if err != nil {
		return nil, fmt.Errorf("dispatch: bind layer shell: %w", err)
	}
	d.compositor = compositor
	d.shm = shm
	d.layerShell = layerShell
	shm.SetFormatHandler(d.formatSource.offer)

	if vp, err := registry.BindViewporter(); err == nil {
		d.viewporter = vp
	} else {
		d.log.Debug().Err(err).Msg("no viewporter advertised")
	}
	if fsm, err := registry.BindFractionalScaleManager(); err == nil {
		d.fracMgr = fsm
	} else {
		d.log.Debug().Err(err).Msg("no fractional scale manager advertised")
	}

	registry.SetGlobalHandlers(d.onGlobal, d.onGlobalRemove)

	if err := display.Roundtrip(); err != nil {
		return nil, fmt.Errorf("dispatch: discover outputs roundtrip: %w", err)
	}

	return d, nil
}

// Run polls the Wayland connection and the client socket until ctxDone is
// closed or a fatal error occurs. EINTR on poll is retried; any other poll
// error is fatal.
func (d *Dispatcher) Run(ctxDone <-chan struct{}) error {
	for {
		select {
		case <-ctxDone:
			return ErrExiting
		default:
		}

		if err := d.display.Flush(); err != nil {
			return fmt.Errorf("dispatch: flush: %w", err)
		}

		fds := []unix.PollFd{
			{Fd: int32(d.display.Fd()), Events: unix.POLLIN},
			{Fd: int32(d.listener.Fd()), Events: unix.POLLIN},
		}
		n, err := unix.Poll(fds, 1000)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("dispatch: poll: %w", err)
		}
		if n == 0 {
			continue
		}

		if fds[0].Revents&unix.POLLIN != 0 {
			if err := d.display.Dispatch(); err != nil {
				return fmt.Errorf("dispatch: wayland dispatch: %w", err)
			}
		}
		if fds[1].Revents&unix.POLLIN != 0 {
			d.acceptOne()
		}

		d.prof.Tick()

		d.mu.Lock()
		exiting := d.exiting
		d.mu.Unlock()
		if exiting {
			return ErrExiting
		}
	}
}

func (d *Dispatcher) acceptOne() {
	conn, err := d.listener.Accept()
	if err != nil {
		d.log.Error().Err(err).Msg("accept failed")
		return
	}
	defer conn.Close()

	req, err := conn.ReadRequest()
	if err != nil {
		d.log.Error().Err(err).Msg("read request failed")
		return
	}

	answer := d.handle(req)
	if err := conn.WriteAnswer(answer); err != nil {
		d.log.Error().Err(err).Msg("error sending answer to client")
	}
}

func (d *Dispatcher) handle(req protoconn.Request) protoconn.Answer {
	switch req.Kind {
	case protoconn.RequestClear:
		return d.handleClear(req.Clear)
	case protoconn.RequestPing:
		return protoconn.Answer{Kind: protoconn.AnswerPing, Ping: d.allConfigured()}
	case protoconn.RequestKill:
		d.mu.Lock()
		d.exiting = true
		d.mu.Unlock()
		return protoconn.Answer{Kind: protoconn.AnswerOk}
	case protoconn.RequestQuery:
		return protoconn.Answer{Kind: protoconn.AnswerInfo, Info: d.snapshot()}
	case protoconn.RequestImg:
		return d.handleImg(req.Img)
	default:
		return protoconn.Answer{Kind: protoconn.AnswerError, Error: "unknown request"}
	}
}

func (d *Dispatcher) handleClear(req protoconn.ClearRequest) protoconn.Answer {
	for _, w := range d.wallpapersByNames(req.Outputs) {
		w.SetBgInfo(wallpaper.Background{Kind: wallpaper.BgColor, Color: req.Color})
		if err := w.Clear(req.Color); err != nil {
			d.log.Error().Err(err).Msg("clear failed")
			continue
		}
		if err := w.CommitFrame(); err != nil {
			d.log.Error().Err(err).Msg("clear commit failed")
		}
	}
	return protoconn.Answer{Kind: protoconn.AnswerOk}
}

func (d *Dispatcher) handleImg(req protoconn.ImgRequest) protoconn.Answer {
	format := d.formatSource.Format()
	groups := make([]animator.Group, len(req.Outputs))
	images := make([]animator.Image, len(req.Imgs))
	var animations []animator.Sequence
	if req.Animations != nil {
		animations = make([]animator.Sequence, len(req.Animations))
	}

	for i, names := range req.Outputs {
		groups[i] = animator.Group{Wallpapers: d.wallpapersByNames(names)}
	}
	for i, img := range req.Imgs {
		images[i] = animator.Image{Bytes: img.Img, Path: img.Path, Width: img.Width, Height: img.Height}
	}
	for i, a := range animations {
		_ = a
		frames := make([]animator.AnimationFrame, len(req.Animations[i].Frames))
		for j, f := range req.Animations[i].Frames {
			frames[j] = animator.AnimationFrame{Data: f.Data, Duration: f.Duration}
		}
		animations[i] = animator.Sequence{Frames: frames}
	}

	d.orchestrator.Transition(animator.Request{
		Descriptor: req.Transition,
		Format:     format,
		Groups:     groups,
		Images:     images,
		Animations: animations,
	})
	return protoconn.Answer{Kind: protoconn.AnswerOk}
}

func (d *Dispatcher) allConfigured() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.outputs {
		if !e.w.IsDrawReady() {
			return false
		}
	}
	return true
}

func (d *Dispatcher) snapshot() []protoconn.OutputInfo {
	d.mu.Lock()
	defer d.mu.Unlock()

	info := make([]protoconn.OutputInfo, 0, len(d.outputs))
	for _, e := range d.outputs {
		w, h := e.w.Dimensions()
		bg := e.w.BgInfo()
		info = append(info, protoconn.OutputInfo{
			Name:    e.w.Name(),
			Width:   w,
			Height:  h,
			Scale:   e.w.Scale(),
			IsColor: bg.Kind == wallpaper.BgColor,
			BgColor: bg.Color,
			BgPath:  bg.Path,
		})
	}
	return info
}
