package viewport

import "github.com/recera/vantage/pkg/geom"

// EventKind identifies the class of input event a surface delivers.
type EventKind uint8

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	Wheel
	TouchStart
	TouchMove
	TouchEnd
	KeyDown
)

// String returns the event kind name for logging.
func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case Wheel:
		return "wheel"
	case TouchStart:
		return "touchstart"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	case KeyDown:
		return "keydown"
	default:
		return "unknown"
	}
}

// Button identifies which pointer button triggered a pointer event.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonAuxiliary
	ButtonSecondary
)

// Touch is a single active touch point in surface-local coordinates.
type Touch struct {
	X float64
	Y float64
}

// Event is the controller's input vocabulary. A single fat struct covers
// every kind; adapters populate the fields relevant to the kind they
// translate. Coordinates are surface-local (origin at the surface's
// top-left corner).
type Event struct {
	Kind    EventKind
	X       float64
	Y       float64
	Button  Button
	DeltaY  float64 // wheel: positive scrolls away from the user
	Touches []Touch // touch kinds: all currently active touch points
	Key     string  // keydown: DOM KeyboardEvent.key value, e.g. "ArrowLeft", "+", "0"
}

// Handler consumes surface events. Returning true marks the event handled;
// adapters suppress the host's default behavior (page scroll, text
// selection) for handled events.
type Handler func(Event) bool

// Surface is the capability the controller needs from its host: an event
// subscription mechanism, a screen-space bounding rectangle, and a sink
// for the computed transform. Implementations exist for the browser DOM,
// Fyne widgets, and in-memory simulation.
type Surface interface {
	// Subscribe registers h for events of the given kind and returns a
	// cancel function that removes the registration.
	Subscribe(kind EventKind, h Handler) (cancel func())

	// Bounds returns the surface's current screen-space rectangle. The
	// controller uses only its dimensions; X and Y locate the surface for
	// adapters that translate global coordinates.
	Bounds() geom.Rect

	// SetTransform applies the transform to the surface's content.
	SetTransform(Transform)
}

// PointerScope is an optional wider event scope (the owning document, in
// DOM terms). When configured, the controller takes pointer-move and
// pointer-up from the scope instead of the surface so a drag keeps
// tracking after the pointer leaves the surface bounds.
type PointerScope interface {
	Subscribe(kind EventKind, h Handler) (cancel func())
}
