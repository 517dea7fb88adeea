// Package fyneview hosts a viewport controller inside a Fyne desktop
// widget. The widget translates Fyne mouse, scroll, drag, and key events
// into the controller's vocabulary and hands every applied transform to a
// client draw callback.
package fyneview

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/recera/vantage/pkg/geom"
	"github.com/recera/vantage/pkg/viewport"
)

// DrawFunc renders the content for the current transform into an image
// of the given pixel size.
type DrawFunc func(w, h int, tf viewport.Transform) image.Image

// View is a Fyne widget implementing viewport.Surface. Attach a
// controller with viewport.New(view, cfg) after constructing it.
type View struct {
	widget.BaseWidget

	mu     sync.Mutex
	subs   map[viewport.EventKind]map[uint64]viewport.Handler
	nextID uint64
	tf     viewport.Transform

	draw   DrawFunc
	raster *canvas.Raster
}

var (
	_ viewport.Surface  = (*View)(nil)
	_ desktop.Mouseable = (*View)(nil)
	_ desktop.Hoverable = (*View)(nil)
	_ fyne.Draggable    = (*View)(nil)
	_ fyne.Scrollable   = (*View)(nil)
	_ fyne.Focusable    = (*View)(nil)
)

// NewView creates a view rendered by draw. A nil draw yields a plain
// dark background.
func NewView(draw DrawFunc) *View {
	v := &View{
		subs: make(map[viewport.EventKind]map[uint64]viewport.Handler),
		draw: draw,
	}
	v.raster = canvas.NewRaster(v.render)
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *View) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

func (v *View) render(w, h int) image.Image {
	v.mu.Lock()
	tf := v.tf
	draw := v.draw
	v.mu.Unlock()
	if draw != nil {
		return draw(w, h, tf)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	return img
}

// Subscribe implements viewport.Surface.
func (v *View) Subscribe(kind viewport.EventKind, h viewport.Handler) (cancel func()) {
	v.mu.Lock()
	if v.subs[kind] == nil {
		v.subs[kind] = make(map[uint64]viewport.Handler)
	}
	v.nextID++
	id := v.nextID
	v.subs[kind][id] = h
	v.mu.Unlock()
	return func() {
		v.mu.Lock()
		delete(v.subs[kind], id)
		v.mu.Unlock()
	}
}

// Bounds implements viewport.Surface using the widget's current size.
func (v *View) Bounds() geom.Rect {
	size := v.Size()
	return geom.RectOf(0, 0, float64(size.Width), float64(size.Height))
}

// SetTransform implements viewport.Surface and triggers a redraw.
func (v *View) SetTransform(tf viewport.Transform) {
	v.mu.Lock()
	v.tf = tf
	v.mu.Unlock()
	v.raster.Refresh()
}

// Transform returns the last applied transform.
func (v *View) Transform() viewport.Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tf
}

func (v *View) dispatch(ev viewport.Event) {
	v.mu.Lock()
	handlers := make([]viewport.Handler, 0, len(v.subs[ev.Kind]))
	for _, h := range v.subs[ev.Kind] {
		handlers = append(handlers, h)
	}
	v.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

// MouseDown implements desktop.Mouseable.
func (v *View) MouseDown(ev *desktop.MouseEvent) {
	v.dispatch(viewport.Event{
		Kind:   viewport.PointerDown,
		X:      float64(ev.Position.X),
		Y:      float64(ev.Position.Y),
		Button: translateButton(ev.Button),
	})
}

// MouseUp implements desktop.Mouseable.
func (v *View) MouseUp(ev *desktop.MouseEvent) {
	v.dispatch(viewport.Event{
		Kind:   viewport.PointerUp,
		X:      float64(ev.Position.X),
		Y:      float64(ev.Position.Y),
		Button: translateButton(ev.Button),
	})
}

// MouseIn implements desktop.Hoverable.
func (v *View) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (v *View) MouseMoved(ev *desktop.MouseEvent) {
	v.dispatch(viewport.Event{
		Kind: viewport.PointerMove,
		X:    float64(ev.Position.X),
		Y:    float64(ev.Position.Y),
	})
}

// MouseOut implements desktop.Hoverable.
func (v *View) MouseOut() {}

// Dragged implements fyne.Draggable; Fyne reports motion through it
// while a button is held.
func (v *View) Dragged(ev *fyne.DragEvent) {
	v.dispatch(viewport.Event{
		Kind: viewport.PointerMove,
		X:    float64(ev.Position.X),
		Y:    float64(ev.Position.Y),
	})
}

// DragEnd implements fyne.Draggable.
func (v *View) DragEnd() {
	v.dispatch(viewport.Event{Kind: viewport.PointerUp})
}

// Scrolled implements fyne.Scrollable. Fyne's DY is positive when
// scrolling up, the opposite of the DOM wheel convention the controller
// follows.
func (v *View) Scrolled(ev *fyne.ScrollEvent) {
	v.dispatch(viewport.Event{
		Kind:   viewport.Wheel,
		X:      float64(ev.Position.X),
		Y:      float64(ev.Position.Y),
		DeltaY: float64(-ev.Scrolled.DY),
	})
}

// FocusGained implements fyne.Focusable.
func (v *View) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (v *View) FocusLost() {}

// TypedKey implements fyne.Focusable, forwarding the arrow keys.
func (v *View) TypedKey(ev *fyne.KeyEvent) {
	var key string
	switch ev.Name {
	case fyne.KeyLeft:
		key = "ArrowLeft"
	case fyne.KeyRight:
		key = "ArrowRight"
	case fyne.KeyUp:
		key = "ArrowUp"
	case fyne.KeyDown:
		key = "ArrowDown"
	default:
		return
	}
	v.dispatch(viewport.Event{Kind: viewport.KeyDown, Key: key})
}

// TypedRune implements fyne.Focusable, forwarding the zoom and reset
// keys.
func (v *View) TypedRune(r rune) {
	switch r {
	case '+', '=', '-', '0':
		v.dispatch(viewport.Event{Kind: viewport.KeyDown, Key: string(r)})
	}
}

func translateButton(b desktop.MouseButton) viewport.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return viewport.ButtonPrimary
	case desktop.MouseButtonTertiary:
		return viewport.ButtonAuxiliary
	case desktop.MouseButtonSecondary:
		return viewport.ButtonSecondary
	default:
		return viewport.ButtonNone
	}
}
