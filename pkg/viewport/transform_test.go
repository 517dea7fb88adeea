package viewport

import (
	"math"
	"math/rand"
	"testing"
)

const tolerance = 1e-9

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestIdentity(t *testing.T) {
	tf := Identity()
	sx, sy := tf.Apply(12.5, -7)
	if sx != 12.5 || sy != -7 {
		t.Errorf("identity Apply(12.5, -7) = (%v, %v)", sx, sy)
	}
}

func TestApplyUnapplyInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		tf := Transform{
			X:     rng.Float64()*2000 - 1000,
			Y:     rng.Float64()*2000 - 1000,
			Scale: rng.Float64()*4.9 + 0.1,
		}
		wx := rng.Float64()*2000 - 1000
		wy := rng.Float64()*2000 - 1000

		// world -> screen -> world
		sx, sy := tf.Apply(wx, wy)
		gx, gy := tf.Unapply(sx, sy)
		if !closeEnough(gx, wx) || !closeEnough(gy, wy) {
			t.Fatalf("round trip %v: (%v, %v) -> (%v, %v)", tf, wx, wy, gx, gy)
		}

		// screen -> world -> screen
		gx, gy = tf.Unapply(wx, wy)
		hx, hy := tf.Apply(gx, gy)
		if !closeEnough(hx, wx) || !closeEnough(hy, wy) {
			t.Fatalf("reverse round trip %v: (%v, %v) -> (%v, %v)", tf, wx, wy, hx, hy)
		}
	}
}

func TestCSS(t *testing.T) {
	tf := Transform{X: 10, Y: -20.5, Scale: 1.5}
	want := "translate(10px, -20.5px) scale(1.5)"
	if got := tf.CSS(); got != want {
		t.Errorf("CSS = %q, want %q", got, want)
	}
}

func TestLerpEndpoints(t *testing.T) {
	from := Transform{X: 0, Y: 100, Scale: 1}
	to := Transform{X: 50, Y: -100, Scale: 3}

	if got := lerp(from, to, 0); got != from {
		t.Errorf("lerp(0) = %v, want %v", got, from)
	}
	if got := lerp(from, to, 1); got != to {
		t.Errorf("lerp(1) = %v, want %v", got, to)
	}
	mid := lerp(from, to, 0.5)
	if !closeEnough(mid.X, 25) || !closeEnough(mid.Y, 0) || !closeEnough(mid.Scale, 2) {
		t.Errorf("lerp(0.5) = %v", mid)
	}
}

func TestEaseOutCubic(t *testing.T) {
	if got := easeOutCubic(0); got != 0 {
		t.Errorf("ease(0) = %v", got)
	}
	if got := easeOutCubic(1); got != 1 {
		t.Errorf("ease(1) = %v", got)
	}
	if got := easeOutCubic(0.5); !closeEnough(got, 0.875) {
		t.Errorf("ease(0.5) = %v, want 0.875", got)
	}
	// Decelerating: first half covers more ground than the second.
	if easeOutCubic(0.5) <= 0.5 {
		t.Error("ease-out should run ahead of linear progress")
	}
}

func TestConfigDefaults(t *testing.T) {
	s := Config{}.withDefaults()
	if s.minZoom != DefaultMinZoom || s.maxZoom != DefaultMaxZoom || s.zoomStep != DefaultZoomStep {
		t.Errorf("defaults = %v/%v/%v", s.minZoom, s.maxZoom, s.zoomStep)
	}
	if !s.panEnabled || !s.zoomEnabled {
		t.Error("pan/zoom should default to enabled")
	}
	if s.animDur != DefaultAnimationDuration {
		t.Errorf("animDur = %v", s.animDur)
	}
}

func TestConfigMalformedValues(t *testing.T) {
	// Malformed numerics resolve to defaults instead of failing.
	s := Config{MinZoom: -1, MaxZoom: -5, ZoomStep: -0.1}.withDefaults()
	if s.minZoom != DefaultMinZoom || s.maxZoom != DefaultMaxZoom || s.zoomStep != DefaultZoomStep {
		t.Errorf("malformed config resolved to %v/%v/%v", s.minZoom, s.maxZoom, s.zoomStep)
	}

	// A custom MinZoom above the default MaxZoom pins MaxZoom to it.
	s = Config{MinZoom: 10}.withDefaults()
	if s.maxZoom != 10 {
		t.Errorf("maxZoom = %v, want pinned to minZoom 10", s.maxZoom)
	}

	s = Config{PanEnabled: Bool(false), ZoomEnabled: Bool(false)}.withDefaults()
	if s.panEnabled || s.zoomEnabled {
		t.Error("explicit false should stick")
	}
}
