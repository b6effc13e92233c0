package animator

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
	"github.com/wlwallpaperd/wlwallpaperd/internal/effect"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wallpaper"
	"github.com/wlwallpaperd/wlwallpaperd/internal/wire"
)

// Minimal wire fakes, enough to drive a real wallpaper.Wallpaper without a
// compositor connection.

type fakeOutput struct{ id wire.ObjectID }

func (o *fakeOutput) ID() wire.ObjectID               { return o.id }
func (o *fakeOutput) SetHandlers(wire.OutputHandlers) {}

type fakeCallback struct{ done func(uint32) }

func (c *fakeCallback) SetDone(fn func(uint32)) { c.done = fn }
func (c *fakeCallback) Destroy()                {}

type fakeSurface struct {
	id wire.ObjectID
}

func (s *fakeSurface) ID() wire.ObjectID                            { return s.id }
func (s *fakeSurface) Attach(buf wire.Buffer, x, y int32) error     { return nil }
func (s *fakeSurface) DamageBuffer(x, y, width, height int32) error { return nil }
func (s *fakeSurface) Commit() error                                { return nil }
func (s *fakeSurface) Frame() (wire.Callback, error)                { return &fakeCallback{}, nil }
func (s *fakeSurface) SetHandlers(enter, leave func(wire.Output), preferredScale func(int32), preferredTransform func(wire.Transform)) {
}
func (s *fakeSurface) Destroy() error { return nil }

type fakeBuffer struct {
	id      wire.ObjectID
	release func()
}

func (b *fakeBuffer) ID() wire.ObjectID    { return b.id }
func (b *fakeBuffer) SetRelease(fn func()) { b.release = fn }
func (b *fakeBuffer) Destroy()             {}

type fakeShmPool struct{ nextID wire.ObjectID }

func (p *fakeShmPool) CreateBuffer(offset, width, height, stride int32, format uint32) (wire.Buffer, error) {
	p.nextID++
	return &fakeBuffer{id: p.nextID}, nil
}
func (p *fakeShmPool) Resize(size int32) error { return nil }
func (p *fakeShmPool) Destroy()                {}

type fakeShm struct{}

func (s *fakeShm) CreatePool(fd int, size int32) (wire.ShmPool, error) { return &fakeShmPool{}, nil }
func (s *fakeShm) SetFormatHandler(func(uint32))                      {}

func newTestTarget(t *testing.T, id wire.ObjectID, width, height int) Target {
	t.Helper()
	w := wallpaper.New(&fakeOutput{id: id}, &fakeSurface{id: id}, &fakeShm{}, wallpaper.WithLogger(zerolog.Nop()))
	w.SetMode(wire.Mode{Width: int32(width), Height: int32(height)})
	if _, err := w.CommitSurfaceChanges(false); err != nil {
		t.Fatalf("CommitSurfaceChanges: %v", err)
	}
	return w
}

type fakeDecompressor struct{}

func (fakeDecompressor) Decompress(frame []byte, canvas []byte, format common.PixelFormat) error {
	copy(canvas, frame)
	return nil
}

func solidImage(width, height int, format common.PixelFormat, color common.Color) []byte {
	img := make([]byte, width*height*format.BytesPerPixel())
	common.Fill(img, width, height, color, format)
	return img
}

func TestTransitionPaintsTarget(t *testing.T) {
	const w, h = 2, 2
	format := common.XRGB8888
	target := newTestTarget(t, 1, w, h)

	o := New(zerolog.Nop(), fakeDecompressor{})
	o.Transition(Request{
		Descriptor: effect.Descriptor{Kind: effect.None},
		Format:     format,
		Groups:     []Group{{Wallpapers: []Target{target}}},
		Images: []Image{
			{Bytes: solidImage(w, h, format, common.Color{10, 20, 30}), Width: w, Height: h},
		},
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var matched bool
		_ = target.CanvasChange(func(canvas []byte) error {
			r, g, b := common.ReadPixel(canvas, 0, format)
			matched = r == 10 && g == 20 && b == 30
			return nil
		})
		if matched {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("transition never painted the target image onto the canvas")
}

func TestTransitionDropsGroupOnDimensionMismatch(t *testing.T) {
	const w, h = 2, 2
	format := common.XRGB8888
	target := newTestTarget(t, 1, w, h)

	o := New(zerolog.Nop(), fakeDecompressor{})
	done := make(chan struct{})
	go func() {
		o.supervise(Request{
			Descriptor: effect.Descriptor{Kind: effect.None},
			Format:     format,
			Groups:     []Group{{Wallpapers: []Target{target}}},
			Images: []Image{
				{Bytes: solidImage(4, 4, format, common.Color{1, 2, 3}), Width: 4, Height: 4},
			},
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("supervise never returned for a mismatched-dimension group")
	}
}

func TestPruneStaleRemovesSupersededTargets(t *testing.T) {
	target := newTestTarget(t, 1, 2, 2)
	tok := target.NewAnimationToken()
	tokens := map[Target]wallpaper.AnimationToken{target: tok}

	remaining := pruneStale([]Target{target}, tokens, zerolog.Nop())
	if len(remaining) != 1 {
		t.Fatalf("pruneStale removed a still-current target: got %d, want 1", len(remaining))
	}

	target.NewAnimationToken() // supersedes tok
	remaining = pruneStale([]Target{target}, tokens, zerolog.Nop())
	if len(remaining) != 0 {
		t.Fatalf("pruneStale kept a superseded target: got %d, want 0", len(remaining))
	}
}

func TestSwapRemove(t *testing.T) {
	s := []Target{newTestTarget(t, 1, 1, 1), newTestTarget(t, 2, 1, 1), newTestTarget(t, 3, 1, 1)}
	removed := s[1]
	s = swapRemove(s, 1)
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	for _, v := range s {
		if v == removed {
			t.Fatal("swapRemove left the removed element in the slice")
		}
	}
}
