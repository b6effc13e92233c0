package effect

import (
	"testing"

	"github.com/wlwallpaperd/wlwallpaperd/internal/common"
)

func solidCanvas(width, height int, format common.PixelFormat, color common.Color) []byte {
	img := make([]byte, width*height*format.BytesPerPixel())
	common.Fill(img, width, height, color, format)
	return img
}

func TestKindString(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{Simple, "simple"},
		{Fade, "fade"},
		{Wipe, "wipe"},
		{Wave, "wave"},
		{Grow, "grow"},
		{Outer, "outer"},
		{None, "none"},
		{Kind(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestFramePeriodSecondsDefaultsTo30FPS(t *testing.T) {
	d := Descriptor{}
	if got, want := d.FramePeriodSeconds(), 1.0/30.0; got != want {
		t.Errorf("FramePeriodSeconds() = %v, want %v", got, want)
	}
	d.FPS = 60
	if got, want := d.FramePeriodSeconds(), 1.0/60.0; got != want {
		t.Errorf("FramePeriodSeconds() = %v, want %v with FPS=60", got, want)
	}
}

func TestNewConstructsEveryKind(t *testing.T) {
	kinds := []Kind{Simple, Fade, Wipe, Wave, Grow, Outer, None, Kind(99)}
	for _, k := range kinds {
		if e := New(Descriptor{Kind: k}); e == nil {
			t.Errorf("New(%v) = nil", k)
		}
	}
}

func TestNoneEffectBlitsInOneFrame(t *testing.T) {
	const w, h = 2, 2
	format := common.XRGB8888
	dst := solidCanvas(w, h, format, common.Color{0, 0, 0})
	target := solidCanvas(w, h, format, common.Color{200, 100, 50})

	e := New(Descriptor{Kind: None})
	if done := e.Apply(dst, target, w, h, format, 1); !done {
		t.Fatal("None.Apply = false, want true")
	}
	for i := range dst {
		if dst[i] != target[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], target[i])
		}
	}
}

func TestSimpleEffectConvergesAndReportsCompletion(t *testing.T) {
	const w, h = 2, 2
	format := common.XRGB8888
	dst := solidCanvas(w, h, format, common.Color{0, 0, 0})
	target := solidCanvas(w, h, format, common.Color{200, 100, 50})

	e := New(Descriptor{Kind: Simple, Step: 10})
	steps := 0
	for !e.Apply(dst, target, w, h, format, 0) {
		steps++
		if steps > 100 {
			t.Fatal("Simple effect never converged")
		}
	}
	for i := range dst {
		if dst[i] != target[i] {
			t.Fatalf("dst[%d] = %d, want %d once converged", i, dst[i], target[i])
		}
	}
}

func TestSimpleEffectZeroStepDefaultsToOne(t *testing.T) {
	const w, h = 1, 1
	format := common.XRGB8888
	dst := solidCanvas(w, h, format, common.Color{0, 0, 0})
	target := solidCanvas(w, h, format, common.Color{5, 5, 5})

	e := New(Descriptor{Kind: Simple, Step: 0})
	if done := e.Apply(dst, target, w, h, format, 0); done {
		t.Fatal("single Apply with a 5-unit gap and Step defaulting to 1 finished early")
	}
}

func TestFadeEffectReachesTargetAtProgressOne(t *testing.T) {
	const w, h = 2, 2
	format := common.XRGB8888
	dst := solidCanvas(w, h, format, common.Color{0, 0, 0})
	target := solidCanvas(w, h, format, common.Color{255, 255, 255})

	e := New(Descriptor{Kind: Fade})
	e.Apply(dst, target, w, h, format, 0.5)
	if done := e.Apply(dst, target, w, h, format, 1); !done {
		t.Error("Fade.Apply at progress=1 returned false")
	}
	for i := range dst {
		if dst[i] != target[i] {
			t.Fatalf("dst[%d] = %d, want %d at progress=1", i, dst[i], target[i])
		}
	}
}

func TestWipeEffectFinishesAtProgressOne(t *testing.T) {
	const w, h = 4, 4
	format := common.XRGB8888
	dst := solidCanvas(w, h, format, common.Color{0, 0, 0})
	target := solidCanvas(w, h, format, common.Color{100, 150, 200})

	e := New(Descriptor{Kind: Wipe, AngleDegrees: 0, BarWidth: 0.1})
	e.Apply(dst, target, w, h, format, 0.3)
	if done := e.Apply(dst, target, w, h, format, 1); !done {
		t.Error("Wipe.Apply at progress=1 returned false")
	}
	for i := range dst {
		if dst[i] != target[i] {
			t.Fatalf("dst[%d] = %d, want %d at progress=1", i, dst[i], target[i])
		}
	}
}

func TestWaveEffectFinishesAtProgressOne(t *testing.T) {
	const w, h = 4, 4
	format := common.XRGB8888
	dst := solidCanvas(w, h, format, common.Color{0, 0, 0})
	target := solidCanvas(w, h, format, common.Color{10, 20, 30})

	e := New(Descriptor{Kind: Wave, AngleDegrees: 45, WaveAmplitude: 2, WaveFrequency: 0.5})
	e.Apply(dst, target, w, h, format, 0.4)
	if done := e.Apply(dst, target, w, h, format, 1); !done {
		t.Error("Wave.Apply at progress=1 returned false")
	}
}

func TestGrowEffectFinishesAtProgressOne(t *testing.T) {
	const w, h = 4, 4
	format := common.XRGB8888
	dst := solidCanvas(w, h, format, common.Color{0, 0, 0})
	target := solidCanvas(w, h, format, common.Color{1, 2, 3})

	e := New(Descriptor{Kind: Grow, Position: Position{X: 0.5, Y: 0.5}})
	e.Apply(dst, target, w, h, format, 0.2)
	if done := e.Apply(dst, target, w, h, format, 1); !done {
		t.Error("Grow.Apply at progress=1 returned false")
	}
	for i := range dst {
		if dst[i] != target[i] {
			t.Fatalf("dst[%d] = %d, want %d at progress=1", i, dst[i], target[i])
		}
	}
}

func TestOuterEffectFinishesAtProgressOne(t *testing.T) {
	const w, h = 4, 4
	format := common.XRGB8888
	dst := solidCanvas(w, h, format, common.Color{0, 0, 0})
	target := solidCanvas(w, h, format, common.Color{7, 8, 9})

	e := New(Descriptor{Kind: Outer, Position: Position{X: 0.5, Y: 0.5}})
	e.Apply(dst, target, w, h, format, 0.2)
	if done := e.Apply(dst, target, w, h, format, 1); !done {
		t.Error("Outer.Apply at progress=1 returned false")
	}
}

func TestCircleSampleBoundaries(t *testing.T) {
	if f := circleSample(1, 5, 0); f != 1 {
		t.Errorf("circleSample inside radius, no band = %v, want 1", f)
	}
	if f := circleSample(10, 5, 0); f != 0 {
		t.Errorf("circleSample outside radius, no band = %v, want 0", f)
	}
	if f := circleSample(5, 5, 2); f != 0.5 {
		t.Errorf("circleSample exactly at radius with band=2 = %v, want 0.5", f)
	}
}

func TestWipeSampleBoundaries(t *testing.T) {
	if f := wipeSample(0.1, 0.5, 0); f != 1 {
		t.Errorf("wipeSample before threshold, no band = %v, want 1", f)
	}
	if f := wipeSample(0.9, 0.5, 0); f != 0 {
		t.Errorf("wipeSample past threshold, no band = %v, want 0", f)
	}
}
