package animator

import (
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/rs/zerolog"

	"github.com/wlwallpaperd/wlwallpaperd/internal/barrier"
	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/effect"
	"github.com/wlwallpaperd/wlwallpaperd/internal/transition"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wallpaper"
)

// Go goroutines start at a few KiB and grow on demand, so the reduced
// worker-thread stack size named elsewhere for this orchestration has no
// direct equivalent here and is intentionally not reproduced.

// Group pairs one target image (or animation) with the wallpapers it
// should be painted onto. The outer Transition call takes one []Group per
// request; index i's wallpapers receive Images[i] and, if present,
// Animations[i].
type Group struct {
	Wallpapers []Target
}

// Request is everything one client Img command needs handed to the
// orchestrator: the transition parameters, the pixel format every canvas
// uses, one target image per group, and an optional trailing animation per
// group. The frame decompressor for animations is the Orchestrator's own,
// passed to New.
type Request struct {
	Descriptor effect.Descriptor
	Format     common.PixelFormat
	Groups     []Group
	Images     []Image
	Animations []Sequence // nil, or same length as Groups; empty Frames skips that group
}

// Option configures an Orchestrator at construction time.
type Option func(o *Orchestrator)

// WithComputePool routes each transition's per-frame painting through a
// shared worker pool instead of a sequential per-target loop.
func WithComputePool(pool worker.DynamicWorkerPool) Option {
	return func(o *Orchestrator) {
		o.pool = pool
	}
}

// WithAnimationTolerance overrides the barrier rendezvous tolerance used as
// a fraction of each animation frame's duration. Defaults to one half.
func WithAnimationTolerance(fraction float64) Option {
	return func(o *Orchestrator) {
		o.tolerance = fraction
	}
}

// Orchestrator owns the long-lived collaborators shared by every Img
// request handled over the daemon's lifetime: the worker pool transition
// frames are painted through, and the single AnimationBarrier every
// currently-looping animation rendezvous on, so that animations started by
// different requests still stay frame-aligned with each other.
type Orchestrator struct {
	log        zerolog.Logger
	decode     Decompressor
	pool       worker.DynamicWorkerPool
	barrier    *barrier.Barrier
	tolerance  float64
}

// New creates an Orchestrator. decode services any trailing animation's
// per-frame decompression; it may be nil if the daemon build never
// receives animated Img requests.
func New(log zerolog.Logger, decode Decompressor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		log:       log,
		decode:    decode,
		barrier:   barrier.New(),
		tolerance: 0.5,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Transition starts req's supervisor goroutine and returns immediately; the
// caller (the dispatcher, answering a client Img request) does not wait for
// painting to finish. Per group: a transition worker runs the descriptor's
// effect to completion, then — if the group carried an animation with more
// than one frame — graduates into a looping animation worker that
// rendezvous with every other currently-looping animation on the shared
// barrier.
func (o *Orchestrator) Transition(req Request) {
	go o.supervise(req)
}

func (o *Orchestrator) supervise(req Request) {
	done := make(chan struct{}, len(req.Groups))

	for i, g := range req.Groups {
		img := req.Images[i]
		var seq *Sequence
		if req.Animations != nil && i < len(req.Animations) && len(req.Animations[i].Frames) > 0 {
			s := req.Animations[i]
			seq = &s
		}
		go o.runTransition(g.Wallpapers, req.Descriptor, req.Format, img, seq, done)
	}

	for range req.Groups {
		<-done
	}
}

// runTransition drives one (image, wallpapers) group's transition to
// completion, pruning wallpapers on token mismatch, then — if a trailing
// animation was supplied — hands off into runAnimation. Signals fin when
// this group's work is entirely finished (transition and any animation).
func (o *Orchestrator) runTransition(targets []Target, desc effect.Descriptor, format common.PixelFormat, img Image, seq *Sequence, fin chan<- struct{}) {
	defer func() { fin <- struct{}{} }()

	if len(targets) == 0 {
		return
	}

	tokens := make(map[Target]wallpaper.AnimationToken, len(targets))
	for _, t := range targets {
		t.SetBgInfo(wallpaper.Background{Kind: wallpaper.BgImage, Path: img.Path})
		tokens[t] = t.NewAnimationToken()
	}

	w, h := targets[0].Dimensions()
	if w != img.Width || h != img.Height {
		o.log.Error().
			Str("path", img.Path).
			Int("expect_w", w).Int("expect_h", h).
			Int("actual_w", img.Width).Int("actual_h", img.Height).
			Msg("image has wrong dimensions, dropping group")
		return
	}

	driver := transition.New(desc, img.Bytes, img.Width, img.Height, format)
	if o.pool != nil {
		driver.WithPool(o.pool)
	}

	for {
		targets = pruneStale(targets, tokens, o.log)
		if len(targets) == 0 {
			return
		}
		deadline := time.Now().Add(driver.FramePeriod())
		if driver.Step(toTransitionTargets(targets)) {
			break
		}
		transition.SleepUntil(deadline)
	}

	if seq == nil || o.decode == nil {
		return
	}
	o.runAnimation(targets, tokens, *seq)
}

// runAnimation loops seq's frames across targets indefinitely, rendezvousing
// with every other active animation on the orchestrator's shared barrier
// before each frame so cross-output looped wallpapers stay aligned. Exits
// once every target has either pruned (token mismatch, decode failure) or
// the caller's process is shutting down and no targets remain.
func (o *Orchestrator) runAnimation(targets []Target, tokens map[Target]wallpaper.AnimationToken, seq Sequence) {
	if len(seq.Frames) <= 1 || len(targets) == 0 {
		return
	}

	now := time.Now()
	idx := 0
	for {
		frame := seq.Frames[idx%len(seq.Frames)]
		o.barrier.Wait(time.Duration(float64(frame.Duration) * o.tolerance))

		targets = pruneStale(targets, tokens, o.log)
		if len(targets) == 0 {
			o.barrier.Leave()
			return
		}

		i := 0
		for i < len(targets) {
			t := targets[i]
			format := t.Format()
			err := t.CanvasChange(func(canvas []byte) error {
				return o.decode.Decompress(frame.Data, canvas, format)
			})
			if err != nil {
				o.log.Error().Err(err).Msg("failed to unpack animation frame")
				targets = swapRemove(targets, i)
				delete(tokens, t)
				continue
			}
			i++
		}

		if len(targets) == 0 {
			o.barrier.Leave()
			return
		}

		for _, t := range targets {
			if err := t.CommitFrame(); err != nil {
				o.log.Debug().Err(err).Msg("animation frame commit skipped")
			}
		}

		remaining := frame.Duration - time.Since(now)
		if remaining > 0 {
			transition.SleepUntil(time.Now().Add(remaining))
		}
		now = time.Now()
		idx++
	}
}

// pruneStale swap-removes any target whose animation token no longer
// matches the one it was started with — meaning a later request has
// superseded it — and logs each drop at debug level.
func pruneStale(targets []Target, tokens map[Target]wallpaper.AnimationToken, log zerolog.Logger) []Target {
	i := 0
	for i < len(targets) {
		t := targets[i]
		if !t.HasAnimationToken(tokens[t]) {
			log.Debug().Msg("wallpaper superseded by newer request, pruning")
			delete(tokens, t)
			targets = swapRemove(targets, i)
			continue
		}
		i++
	}
	return targets
}

func swapRemove(s []Target, i int) []Target {
	last := len(s) - 1
	s[i] = s[last]
	return s[:last]
}

func toTransitionTargets(targets []Target) []transition.Target {
	out := make([]transition.Target, len(targets))
	for i, t := range targets {
		out[i] = t
	}
	return out
}
