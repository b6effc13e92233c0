package transition

import (
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/effect"
)

// fakeTarget is a minimal in-memory Target: a byte slice canvas and a
// commit counter, enough to exercise Driver without a real wallpaper.
type fakeTarget struct {
	mu        sync.Mutex
	canvas    []byte
	commits   int
	unavail   bool
}

func newFakeTarget(n int) *fakeTarget {
	return &fakeTarget{canvas: make([]byte, n)}
}

func (f *fakeTarget) CanvasChange(fn func([]byte) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavail {
		return ErrBufferUnavailable
	}
	return fn(f.canvas)
}

func (f *fakeTarget) CommitFrame() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits++
	return nil
}

func solidImage(width, height int, format common.PixelFormat, color common.Color) []byte {
	img := make([]byte, width*height*format.BytesPerPixel())
	common.Fill(img, width, height, color, format)
	return img
}

func TestDriverStepNoneCompletesImmediately(t *testing.T) {
	const w, h = 4, 4
	format := common.XRGB8888
	img := solidImage(w, h, format, common.Color{10, 20, 30})

	d := New(effect.Descriptor{Kind: effect.None}, img, w, h, format)
	target := newFakeTarget(w * h * format.BytesPerPixel())

	done := d.Step([]Target{target})
	if !done {
		t.Fatalf("Step with effect.None = false, want true (one-frame finish)")
	}
	if target.commits != 1 {
		t.Errorf("commits = %d, want 1", target.commits)
	}
	for i := range target.canvas {
		if target.canvas[i] != img[i] {
			t.Fatalf("canvas[%d] = %d, want %d (image not blitted)", i, target.canvas[i], img[i])
		}
	}
}

func TestDriverStepRetriesOnUnavailableBuffer(t *testing.T) {
	const w, h = 2, 2
	format := common.XRGB8888
	img := solidImage(w, h, format, common.Color{1, 2, 3})

	d := New(effect.Descriptor{Kind: effect.None}, img, w, h, format)
	target := newFakeTarget(w * h * format.BytesPerPixel())
	target.unavail = true

	if done := d.Step([]Target{target}); done {
		t.Fatalf("Step with an unavailable buffer = true, want false (retry next frame)")
	}
	if target.commits != 0 {
		t.Errorf("commits = %d, want 0 when the buffer never became available", target.commits)
	}
}

func TestDriverStepSimpleProgressesGradually(t *testing.T) {
	const w, h = 2, 2
	format := common.XRGB8888
	img := solidImage(w, h, format, common.Color{255, 255, 255})

	d := New(effect.Descriptor{Kind: effect.Simple, Step: 16}, img, w, h, format)
	target := newFakeTarget(w * h * format.BytesPerPixel())

	steps := 0
	for !d.Step([]Target{target}) {
		steps++
		if steps > 1000 {
			t.Fatalf("Simple transition never finished after %d steps", steps)
		}
	}
	if steps == 0 {
		t.Errorf("Simple transition finished in a single Step, expected gradual progress")
	}
	for i := range target.canvas {
		if target.canvas[i] != img[i] {
			t.Fatalf("canvas[%d] = %d, want %d once finished", i, target.canvas[i], img[i])
		}
	}
}

func TestDriverStepPooledMatchesSequential(t *testing.T) {
	const w, h = 8, 8
	format := common.XRGB8888
	img := solidImage(w, h, format, common.Color{9, 9, 9})

	pool := worker.NewDynamicWorkerPool(4, 16, time.Second)

	d := New(effect.Descriptor{Kind: effect.None}, img, w, h, format).WithPool(pool)

	targets := make([]Target, 5)
	fakes := make([]*fakeTarget, 5)
	for i := range targets {
		fakes[i] = newFakeTarget(w * h * format.BytesPerPixel())
		targets[i] = fakes[i]
	}

	if done := d.Step(targets); !done {
		t.Fatalf("pooled Step with effect.None = false, want true")
	}
	for i, f := range fakes {
		if f.commits != 1 {
			t.Errorf("target %d: commits = %d, want 1", i, f.commits)
		}
		for j := range f.canvas {
			if f.canvas[j] != img[j] {
				t.Fatalf("target %d: canvas[%d] = %d, want %d", i, j, f.canvas[j], img[j])
			}
		}
	}
}

func TestDriverFramePeriodDefaultsTo30FPS(t *testing.T) {
	d := New(effect.Descriptor{}, nil, 0, 0, common.XRGB8888)
	want := time.Second / 30
	if got := d.FramePeriod(); got != want {
		t.Errorf("FramePeriod() = %v, want %v", got, want)
	}
}
