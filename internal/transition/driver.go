package transition

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/effect"
)

// ErrBufferUnavailable is a sentinel a Target may return from CanvasChange
// when no writable buffer is currently free. The driver does not test for
// it: any CanvasChange error means "retry next frame" for that target.
var ErrBufferUnavailable = errUnavailable{}

type errUnavailable struct{}

func (errUnavailable) Error() string { return "transition: no writable buffer available" }

// Target is the subset of wallpaper.Wallpaper the step scheduler needs: a
// writable canvas to paint into and the attach/damage/commit sequence that
// hands the result to the compositor.
type Target interface {
	// CanvasChange hands fn a writable canvas slice sized
	// width*height*format.BytesPerPixel(). Returns an error if no writable
	// buffer is currently free (wallpaper.Wallpaper returns
	// wallpaper.ErrBufferUnavailable).
	CanvasChange(fn func([]byte) error) error
	// CommitFrame attaches, damages, and commits the just-written canvas.
	CommitFrame() error
}

// Driver advances one transition's effect by a frame each time Step is
// called. Step does not sleep; FramePeriod gives the descriptor's frame
// period for the caller to pace against.
type Driver struct {
	eff      effect.Effect
	desc     effect.Descriptor
	img      []byte
	width    int
	height   int
	format   common.PixelFormat
	progress float64

	// pool, when set, fans the per-target canvas work for one frame out
	// across a reusable worker pool instead of painting each target
	// sequentially. A per-frame sync.WaitGroup provides the barrier since
	// the pool itself stays alive across frames.
	pool   worker.DynamicWorkerPool
	taskID uint64
}

// New constructs a Driver for one transition run toward img.
//
// Parameters:
//   - desc: the transition parameters (kind, step, pacing, geometry)
//   - img: the target image bytes, width*height*format.BytesPerPixel()
//   - width, height: the target image's dimensions
//   - format: the pixel layout img and every target's canvas share
//
// Returns:
//   - *Driver: the constructed step scheduler, at progress 0
func New(desc effect.Descriptor, img []byte, width, height int, format common.PixelFormat) *Driver {
	return &Driver{
		eff:    effect.New(desc),
		desc:   desc,
		img:    img,
		width:  width,
		height: height,
		format: format,
	}
}

// WithPool routes each frame's per-target painting through pool instead of
// painting targets one at a time. Useful when a transition spans many
// outputs; the pool is expected to outlive the driver.
func (d *Driver) WithPool(pool worker.DynamicWorkerPool) *Driver {
	d.pool = pool
	return d
}

// FramePeriod is the wall-clock duration one Step call should occupy,
// derived from the descriptor's target FPS.
func (d *Driver) FramePeriod() time.Duration {
	return time.Duration(d.desc.FramePeriodSeconds() * float64(time.Second))
}

// Step applies the effect to every target's canvas once, advances
// progress, and reports whether the transition has finished: every target's
// canvas now equals the image bit-for-bit, per the effect's own Apply
// return rather than progress alone (None finishes on the first Step
// regardless of progress; Simple finishes once every channel converges).
//
// Parameters:
//   - targets: the wallpapers to paint this frame
//
// Returns:
//   - bool: true once the transition is complete on every target
func (d *Driver) Step(targets []Target) bool {
	allDone := true

	if d.pool != nil && len(targets) > 1 {
		allDone = d.stepPooled(targets)
	} else {
		for _, t := range targets {
			allDone = d.paint(t) && allDone
		}
	}

	step := d.desc.ProgressStep
	if step <= 0 {
		step = d.desc.FramePeriodSeconds()
	}
	d.progress += step
	if d.progress > 1 {
		d.progress = 1
	}

	return allDone
}

// Progress returns the scheduler's current normalized progress, in [0,1].
func (d *Driver) Progress() float64 {
	return d.progress
}

// paint applies the effect to t's canvas and commits it, reporting whether
// this target finished (acquired its canvas, matched the target image, and
// committed) this frame.
func (d *Driver) paint(t Target) bool {
	matched := false
	err := t.CanvasChange(func(canvas []byte) error {
		matched = d.eff.Apply(canvas, d.img, d.width, d.height, d.format, d.progress)
		return nil
	})
	if err != nil {
		// Buffer unavailable (or the caller's decode/paint failed): this
		// target isn't done yet, retry next frame.
		return false
	}
	if err := t.CommitFrame(); err != nil {
		return false
	}
	return matched
}

// stepPooled fans paint out across the driver's worker pool, one task per
// target, and waits for the frame's tasks with a WaitGroup barrier — the
// pool itself persists across frames, so Wait() (which blocks until the
// pool idles out) would be the wrong synchronization primitive here.
func (d *Driver) stepPooled(targets []Target) bool {
	var wg sync.WaitGroup
	var failures int64

	for _, t := range targets {
		tCap := t
		id := int(atomic.AddUint64(&d.taskID, 1))
		wg.Add(1)
		d.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				if !d.paint(tCap) {
					atomic.AddInt64(&failures, 1)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return atomic.LoadInt64(&failures) == 0
}
