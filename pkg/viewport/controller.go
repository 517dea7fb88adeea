// Package viewport converts raw pointer, touch, and keyboard input into a
// 2D affine view transform (pan offset + uniform scale) over a host
// surface, and converts between screen-space and world-space coordinates
// under that transform.
package viewport

import (
	"errors"
	"sync"

	"github.com/recera/vantage/pkg/geom"
	"github.com/recera/vantage/pkg/observe"
)

// ErrNilSurface is returned by New when the host surface is missing.
var ErrNilSurface = errors.New("viewport: nil host surface")

// Controller owns the viewport transform for one host surface. It binds
// to the surface's input events at construction, derives transform
// mutations from input deltas, clamps the scale to the configured bounds,
// and notifies subscribers after every mutation.
//
// The transform and gesture state are exclusively owned by the
// controller; external code observes snapshots through Transform and the
// change notification and mutates only through the public operations.
type Controller struct {
	host    Surface
	cfg     settings
	changes *observe.Emitter[Transform]

	mu sync.Mutex
	tf Transform

	// Gesture session, valid only between gesture start and end events.
	panning  bool
	last     geom.Point
	pinching bool
	lastDist float64

	anim    *animation
	cancels []func()
}

// New constructs a controller bound to host and applies the identity
// transform to its content. A nil host fails fast; every other
// configuration problem is resolved by defaulting.
func New(host Surface, cfg Config) (*Controller, error) {
	if host == nil {
		return nil, ErrNilSurface
	}
	c := &Controller{
		host:    host,
		cfg:     cfg.withDefaults(),
		changes: observe.NewEmitter[Transform](),
		tf:      Identity(),
	}
	c.bind()
	host.SetTransform(c.tf)
	return c, nil
}

// bind registers the input subscriptions. Pointer move/up come from the
// configured scope when one is present, so a drag keeps tracking after
// the pointer leaves the surface.
func (c *Controller) bind() {
	sub := func(kind EventKind, h Handler) {
		c.cancels = append(c.cancels, c.host.Subscribe(kind, h))
	}
	sub(PointerDown, c.onPointerDown)
	sub(Wheel, c.onWheel)
	sub(TouchStart, c.onTouchStart)
	sub(TouchMove, c.onTouchMove)
	sub(TouchEnd, c.onTouchEnd)
	sub(KeyDown, c.onKeyDown)

	if scope := c.cfg.scope; scope != nil {
		c.cancels = append(c.cancels,
			scope.Subscribe(PointerMove, c.onPointerMove),
			scope.Subscribe(PointerUp, c.onPointerUp))
	} else {
		sub(PointerMove, c.onPointerMove)
		sub(PointerUp, c.onPointerUp)
	}
}

// Destroy cancels every subscription taken at construction and stops any
// in-flight animation. Calling mutation methods after Destroy is
// undefined behavior; the controller does not guard against it.
func (c *Controller) Destroy() {
	c.mu.Lock()
	c.stopAnimationLocked()
	cancels := c.cancels
	c.cancels = nil
	c.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// Transform returns a snapshot of the current transform.
func (c *Controller) Transform() Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tf
}

// Scale returns the current zoom factor.
func (c *Controller) Scale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tf.Scale
}

// OnChange subscribes fn to transform change notifications. fn receives a
// snapshot after every synchronous mutation and exactly once when an
// animated transition completes. It is invoked on the goroutine that
// triggered the mutation, outside the controller's lock; a subscriber
// that calls back into a mutating method will simply be notified again
// for the nested mutation.
func (c *Controller) OnChange(fn func(Transform)) (cancel func()) {
	return c.changes.Subscribe(fn)
}

// apply writes tf as the current transform, pushes it to the surface, and
// notifies subscribers.
func (c *Controller) apply(tf Transform) {
	c.mu.Lock()
	c.stopAnimationLocked()
	c.tf = tf
	c.mu.Unlock()
	c.host.SetTransform(tf)
	c.changes.Emit(tf)
}

// Pan translates the viewport by the given pixel deltas. The pan offset
// is unbounded: content may be moved arbitrarily far off-surface.
func (c *Controller) Pan(dx, dy float64) {
	c.mu.Lock()
	tf := c.tf
	c.mu.Unlock()
	tf.X += dx
	tf.Y += dy
	c.apply(tf)
}

// PanTo sets the absolute pan offset, optionally animated.
func (c *Controller) PanTo(x, y float64, animate bool) {
	c.mu.Lock()
	tf := c.tf
	c.mu.Unlock()
	tf.X = x
	tf.Y = y
	if animate {
		c.animateTo(tf)
		return
	}
	c.apply(tf)
}

// ZoomAt multiplies the scale by factor, clamped to the configured
// bounds, while keeping the world point under the screen-space anchor
// (cx, cy) fixed. Factors above 1 zoom in, below 1 zoom out.
func (c *Controller) ZoomAt(factor, cx, cy float64) {
	c.mu.Lock()
	tf := c.tf
	c.mu.Unlock()
	c.apply(zoomAt(tf, factor, cx, cy, c.cfg.minZoom, c.cfg.maxZoom))
}

// Zoom is ZoomAt anchored at the center of the surface.
func (c *Controller) Zoom(factor float64) {
	center := c.surfaceCenter()
	c.ZoomAt(factor, center.X, center.Y)
}

// ZoomTo sets the scale to an absolute value (clamped), anchored at the
// surface center, optionally animated.
func (c *Controller) ZoomTo(scale float64, animate bool) {
	c.mu.Lock()
	tf := c.tf
	c.mu.Unlock()
	center := c.surfaceCenter()
	target := zoomAt(tf, scale/tf.Scale, center.X, center.Y, c.cfg.minZoom, c.cfg.maxZoom)
	if animate {
		c.animateTo(target)
		return
	}
	c.apply(target)
}

// Reset restores the identity transform, optionally animated.
func (c *Controller) Reset(animate bool) {
	if animate {
		c.animateTo(Identity())
		return
	}
	c.apply(Identity())
}

// FitToContent animates to the largest clamped scale that fits the
// world-space bounds inside the surface less padding pixels on every
// side, centered. Degenerate bounds or a surface smaller than its padding
// leave the viewport untouched.
func (c *Controller) FitToContent(bounds geom.Rect, padding float64) {
	view := c.host.Bounds()
	inner := geom.RectOf(0, 0, view.Width, view.Height).Inset(padding)
	if bounds.Empty() || inner.Empty() {
		return
	}
	scale := inner.Width / bounds.Width
	if sy := inner.Height / bounds.Height; sy < scale {
		scale = sy
	}
	scale = clamp(scale, c.cfg.minZoom, c.cfg.maxZoom)
	center := bounds.Center()
	c.animateTo(Transform{
		X:     view.Width/2 - center.X*scale,
		Y:     view.Height/2 - center.Y*scale,
		Scale: scale,
	})
}

// ScreenToWorld converts a surface-local screen coordinate to world
// space under the current transform.
func (c *Controller) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return c.Transform().Unapply(sx, sy)
}

// WorldToScreen converts a world coordinate to surface-local screen
// space under the current transform.
func (c *Controller) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.Transform().Apply(wx, wy)
}

// zoomAt is the anchor-preserving zoom step: scale is clamped first, then
// the pan offset is adjusted so the world point under (cx, cy) stays
// under (cx, cy).
func zoomAt(tf Transform, factor, cx, cy, minZoom, maxZoom float64) Transform {
	newScale := clamp(tf.Scale*factor, minZoom, maxZoom)
	diff := newScale / tf.Scale
	return Transform{
		X:     cx - (cx-tf.X)*diff,
		Y:     cy - (cy-tf.Y)*diff,
		Scale: newScale,
	}
}

func (c *Controller) surfaceCenter() geom.Point {
	b := c.host.Bounds()
	return geom.Pt(b.Width/2, b.Height/2)
}

// --- Input handlers (gesture state machine) ---

func (c *Controller) onPointerDown(ev Event) bool {
	if !c.cfg.panEnabled {
		return false
	}
	if ev.Button != ButtonPrimary && ev.Button != ButtonAuxiliary {
		return false
	}
	c.mu.Lock()
	c.panning = true
	c.last = geom.Pt(ev.X, ev.Y)
	c.mu.Unlock()
	return true
}

func (c *Controller) onPointerMove(ev Event) bool {
	c.mu.Lock()
	if !c.panning {
		c.mu.Unlock()
		return false
	}
	delta := geom.Pt(ev.X, ev.Y).Sub(c.last)
	c.last = geom.Pt(ev.X, ev.Y)
	c.mu.Unlock()
	c.Pan(delta.X, delta.Y)
	return true
}

func (c *Controller) onPointerUp(Event) bool {
	c.mu.Lock()
	was := c.panning
	c.panning = false
	c.mu.Unlock()
	return was
}

func (c *Controller) onWheel(ev Event) bool {
	if !c.cfg.zoomEnabled {
		return false
	}
	factor := 1 + c.cfg.zoomStep
	if ev.DeltaY > 0 {
		factor = 1 - c.cfg.zoomStep
	}
	c.ZoomAt(factor, ev.X, ev.Y)
	return true
}

func (c *Controller) onTouchStart(ev Event) bool {
	switch {
	case len(ev.Touches) >= 2 && c.cfg.zoomEnabled:
		a, b := geom.Pt(ev.Touches[0].X, ev.Touches[0].Y), geom.Pt(ev.Touches[1].X, ev.Touches[1].Y)
		c.mu.Lock()
		c.pinching = true
		c.panning = false
		c.lastDist = a.Dist(b)
		c.mu.Unlock()
		return true
	case len(ev.Touches) == 1 && c.cfg.panEnabled:
		c.mu.Lock()
		if c.pinching {
			c.mu.Unlock()
			return false
		}
		c.panning = true
		c.last = geom.Pt(ev.Touches[0].X, ev.Touches[0].Y)
		c.mu.Unlock()
		return true
	}
	return false
}

func (c *Controller) onTouchMove(ev Event) bool {
	c.mu.Lock()
	switch {
	case c.pinching && len(ev.Touches) >= 2:
		a, b := geom.Pt(ev.Touches[0].X, ev.Touches[0].Y), geom.Pt(ev.Touches[1].X, ev.Touches[1].Y)
		dist := a.Dist(b)
		if c.lastDist <= 0 || dist <= 0 {
			c.lastDist = dist
			c.mu.Unlock()
			return true
		}
		factor := dist / c.lastDist
		c.lastDist = dist
		mid := a.Mid(b)
		c.mu.Unlock()
		c.ZoomAt(factor, mid.X, mid.Y)
		return true
	case c.panning && len(ev.Touches) >= 1:
		p := geom.Pt(ev.Touches[0].X, ev.Touches[0].Y)
		delta := p.Sub(c.last)
		c.last = p
		c.mu.Unlock()
		c.Pan(delta.X, delta.Y)
		return true
	}
	c.mu.Unlock()
	return false
}

func (c *Controller) onTouchEnd(Event) bool {
	c.mu.Lock()
	was := c.panning || c.pinching
	c.panning = false
	c.pinching = false
	c.lastDist = 0
	c.mu.Unlock()
	return was
}

func (c *Controller) onKeyDown(ev Event) bool {
	switch ev.Key {
	case "ArrowLeft":
		c.Pan(-arrowPanStep, 0)
	case "ArrowRight":
		c.Pan(arrowPanStep, 0)
	case "ArrowUp":
		c.Pan(0, -arrowPanStep)
	case "ArrowDown":
		c.Pan(0, arrowPanStep)
	case "+", "=":
		c.Zoom(1 + c.cfg.zoomStep)
	case "-":
		c.Zoom(1 - c.cfg.zoomStep)
	case "0":
		c.Reset(true)
	default:
		return false
	}
	return true
}
