//go:build js && wasm
// +build js,wasm

// Package dom binds the viewport controller to a browser host element.
// Events are translated into the controller's vocabulary with
// surface-local coordinates, consumed events get preventDefault, and the
// computed transform is written to the content element's style.
package dom

import (
	"fmt"
	"syscall/js"
	"time"

	"github.com/recera/vantage/pkg/geom"
	"github.com/recera/vantage/pkg/viewport"
)

// eventName maps the controller's event kinds to DOM event types.
var eventName = map[viewport.EventKind]string{
	viewport.PointerDown: "mousedown",
	viewport.PointerMove: "mousemove",
	viewport.PointerUp:   "mouseup",
	viewport.Wheel:       "wheel",
	viewport.TouchStart:  "touchstart",
	viewport.TouchMove:   "touchmove",
	viewport.TouchEnd:    "touchend",
	viewport.KeyDown:     "keydown",
}

// Surface wraps a host element and a nested content element. The host
// receives the input listeners; the content receives the transform.
type Surface struct {
	host    js.Value
	content js.Value
}

// New wraps host and content elements. Both must be real DOM elements
// with addEventListener support; anything else fails fast.
func New(host, content js.Value) (*Surface, error) {
	if !host.Truthy() || !host.Get("addEventListener").Truthy() {
		return nil, fmt.Errorf("dom: host element lacks event subscription support")
	}
	if !content.Truthy() {
		return nil, fmt.Errorf("dom: content element is missing")
	}
	content.Get("style").Set("transformOrigin", "0 0")
	return &Surface{host: host, content: content}, nil
}

// ByID looks up host and content elements by their DOM ids.
func ByID(hostID, contentID string) (*Surface, error) {
	doc := js.Global().Get("document")
	return New(doc.Call("getElementById", hostID), doc.Call("getElementById", contentID))
}

// Subscribe registers a DOM listener for the event kind. The js.Func is
// retained for the life of the subscription and released on cancel;
// dropping it earlier would leave the browser calling into freed Go
// memory.
func (s *Surface) Subscribe(kind viewport.EventKind, h viewport.Handler) (cancel func()) {
	return listen(s.host, s.host, kind, h)
}

// Bounds returns the host's bounding client rectangle.
func (s *Surface) Bounds() geom.Rect {
	r := s.host.Call("getBoundingClientRect")
	return geom.RectOf(
		r.Get("left").Float(),
		r.Get("top").Float(),
		r.Get("width").Float(),
		r.Get("height").Float(),
	)
}

// SetTransform writes the transform to the content element's style.
func (s *Surface) SetTransform(tf viewport.Transform) {
	s.content.Get("style").Set("transform", tf.CSS())
}

// DocumentScope returns a viewport.PointerScope over the owning document,
// so drags keep tracking after the pointer leaves the host bounds. Event
// coordinates stay host-local.
func (s *Surface) DocumentScope() viewport.PointerScope {
	return &documentScope{host: s.host, doc: js.Global().Get("document")}
}

type documentScope struct {
	host js.Value
	doc  js.Value
}

func (d *documentScope) Subscribe(kind viewport.EventKind, h viewport.Handler) (cancel func()) {
	return listen(d.doc, d.host, kind, h)
}

// listen wires a translated handler onto target, reporting coordinates
// relative to origin's bounding rect.
func listen(target, origin js.Value, kind viewport.EventKind, h viewport.Handler) (cancel func()) {
	name, ok := eventName[kind]
	if !ok {
		return func() {}
	}
	fn := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		ev := args[0]
		if h(translate(kind, ev, origin)) {
			ev.Call("preventDefault")
		}
		return nil
	})
	// passive:false so preventDefault works on wheel and touch events.
	opts := js.Global().Get("Object").New()
	opts.Set("passive", false)
	target.Call("addEventListener", name, fn, opts)

	released := false
	return func() {
		if released {
			return
		}
		released = true
		target.Call("removeEventListener", name, fn, opts)
		fn.Release()
	}
}

// translate converts a DOM event into the controller's vocabulary with
// origin-local coordinates.
func translate(kind viewport.EventKind, ev, origin js.Value) viewport.Event {
	rect := origin.Call("getBoundingClientRect")
	left, top := rect.Get("left").Float(), rect.Get("top").Float()

	out := viewport.Event{Kind: kind}
	switch kind {
	case viewport.PointerDown, viewport.PointerMove, viewport.PointerUp:
		out.X = ev.Get("clientX").Float() - left
		out.Y = ev.Get("clientY").Float() - top
		out.Button = translateButton(ev.Get("button").Int())
	case viewport.Wheel:
		out.X = ev.Get("clientX").Float() - left
		out.Y = ev.Get("clientY").Float() - top
		out.DeltaY = ev.Get("deltaY").Float()
	case viewport.TouchStart, viewport.TouchMove, viewport.TouchEnd:
		touches := ev.Get("touches")
		n := touches.Get("length").Int()
		out.Touches = make([]viewport.Touch, n)
		for i := 0; i < n; i++ {
			t := touches.Index(i)
			out.Touches[i] = viewport.Touch{
				X: t.Get("clientX").Float() - left,
				Y: t.Get("clientY").Float() - top,
			}
		}
	case viewport.KeyDown:
		out.Key = ev.Get("key").String()
	}
	return out
}

func translateButton(b int) viewport.Button {
	switch b {
	case 0:
		return viewport.ButtonPrimary
	case 1:
		return viewport.ButtonAuxiliary
	case 2:
		return viewport.ButtonSecondary
	default:
		return viewport.ButtonNone
	}
}

// RAF is a frame.Scheduler backed by requestAnimationFrame. The browser
// timestamp is an offset from the page's time origin; RAF maps it onto Go
// time against an epoch captured at construction, which preserves frame
// deltas.
type RAF struct {
	epoch time.Time
}

// NewRAF creates a requestAnimationFrame scheduler.
func NewRAF() *RAF {
	return &RAF{epoch: time.Now()}
}

// Request schedules fn for the next animation frame.
func (r *RAF) Request(fn func(now time.Time)) (cancel func()) {
	done := false
	var f js.Func
	f = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		ms := args[0].Float()
		done = true
		fn(r.epoch.Add(time.Duration(ms * float64(time.Millisecond))))
		f.Release()
		return nil
	})
	id := js.Global().Call("requestAnimationFrame", f)
	return func() {
		if done {
			return
		}
		done = true
		js.Global().Call("cancelAnimationFrame", id)
		f.Release()
	}
}
