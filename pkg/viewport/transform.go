package viewport

import (
	"fmt"

	"github.com/recera/vantage/pkg/geom"
)

// Transform is the viewport's durable state: a pan offset in screen pixels
// and a uniform zoom factor. It maps world coordinates to screen
// coordinates as screen = world*Scale + pan, with the origin at the
// surface's top-left corner.
type Transform struct {
	X     float64
	Y     float64
	Scale float64
}

// Identity returns the no-op transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Apply projects a world-space point into screen space.
func (t Transform) Apply(wx, wy float64) (sx, sy float64) {
	return wx*t.Scale + t.X, wy*t.Scale + t.Y
}

// Unapply projects a screen-space point back into world space. It is the
// exact inverse of Apply for any transform with a positive scale.
func (t Transform) Unapply(sx, sy float64) (wx, wy float64) {
	return (sx - t.X) / t.Scale, (sy - t.Y) / t.Scale
}

// ApplyPoint is Apply over a geom.Point.
func (t Transform) ApplyPoint(p geom.Point) geom.Point {
	x, y := t.Apply(p.X, p.Y)
	return geom.Pt(x, y)
}

// UnapplyPoint is Unapply over a geom.Point.
func (t Transform) UnapplyPoint(p geom.Point) geom.Point {
	x, y := t.Unapply(p.X, p.Y)
	return geom.Pt(x, y)
}

// CSS renders the transform as a CSS transform value. The composition
// order matches the coordinate math above and assumes transform-origin
// at the element's top-left corner.
func (t Transform) CSS() string {
	return fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", t.X, t.Y, t.Scale)
}

// lerp interpolates each field linearly between from and to. t=0 yields
// from, t=1 yields to.
func lerp(from, to Transform, t float64) Transform {
	return Transform{
		X:     from.X + (to.X-from.X)*t,
		Y:     from.Y + (to.Y-from.Y)*t,
		Scale: from.Scale + (to.Scale-from.Scale)*t,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
