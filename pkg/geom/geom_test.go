package geom

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	a := Pt(3, 4)
	b := Pt(1, -2)

	if got := a.Add(b); got != Pt(4, 2) {
		t.Errorf("Add = %v, want (4, 2)", got)
	}
	if got := a.Sub(b); got != Pt(2, 6) {
		t.Errorf("Sub = %v, want (2, 6)", got)
	}
	if got := a.Mul(2); got != Pt(6, 8) {
		t.Errorf("Mul = %v, want (6, 8)", got)
	}
	if got := Pt(0, 0).Dist(a); got != 5 {
		t.Errorf("Dist = %v, want 5", got)
	}
	if got := a.Mid(b); got != Pt(2, 1) {
		t.Errorf("Mid = %v, want (2, 1)", got)
	}
}

func TestRectCenter(t *testing.T) {
	r := RectOf(10, 20, 100, 50)
	if got := r.Center(); got != Pt(60, 45) {
		t.Errorf("Center = %v, want (60, 45)", got)
	}
}

func TestRectInset(t *testing.T) {
	r := RectOf(0, 0, 100, 60).Inset(10)
	want := RectOf(10, 10, 80, 40)
	if r != want {
		t.Errorf("Inset = %v, want %v", r, want)
	}

	// Over-inset rectangles become empty, not negative-safe.
	if !RectOf(0, 0, 10, 10).Inset(6).Empty() {
		t.Error("over-inset rect should be empty")
	}
}

func TestRectContains(t *testing.T) {
	r := RectOf(0, 0, 10, 10)
	cases := []struct {
		p    Point
		want bool
	}{
		{Pt(5, 5), true},
		{Pt(0, 0), true},
		{Pt(10, 10), true},
		{Pt(10.1, 5), false},
		{Pt(-0.1, 5), false},
	}
	for _, c := range cases {
		if got := r.Contains(c.p); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestDistStability(t *testing.T) {
	// Hypot avoids overflow where sqrt(dx*dx+dy*dy) would not.
	a := Pt(0, 0)
	b := Pt(1e308, 1e308)
	if d := a.Dist(b); math.IsInf(d, 1) {
		t.Error("Dist overflowed to +Inf")
	}
}
