// Package sim provides an in-memory viewport.Surface with no windowing
// system behind it. It backs headless tests, the terminal playground, and
// the server side of the live bridge: callers set the bounds, dispatch
// synthetic events, and read back the transforms the controller applied.
package sim

import (
	"sort"
	"sync"

	"github.com/recera/vantage/pkg/geom"
	"github.com/recera/vantage/pkg/viewport"
)

// Surface is an in-memory event surface. It implements both
// viewport.Surface and viewport.PointerScope, so the same instance can
// serve as a controller's host and its wider pointer-tracking scope.
type Surface struct {
	mu      sync.Mutex
	bounds  geom.Rect
	subs    map[viewport.EventKind]map[uint64]viewport.Handler
	nextID  uint64
	tf      viewport.Transform
	applied int
}

// New creates a surface with the given bounds.
func New(bounds geom.Rect) *Surface {
	return &Surface{
		bounds: bounds,
		subs:   make(map[viewport.EventKind]map[uint64]viewport.Handler),
	}
}

// Subscribe registers h for events of the given kind.
func (s *Surface) Subscribe(kind viewport.EventKind, h viewport.Handler) (cancel func()) {
	s.mu.Lock()
	if s.subs[kind] == nil {
		s.subs[kind] = make(map[uint64]viewport.Handler)
	}
	s.nextID++
	id := s.nextID
	s.subs[kind][id] = h
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs[kind], id)
		s.mu.Unlock()
	}
}

// Bounds returns the surface rectangle.
func (s *Surface) Bounds() geom.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// SetBounds resizes the surface.
func (s *Surface) SetBounds(bounds geom.Rect) {
	s.mu.Lock()
	s.bounds = bounds
	s.mu.Unlock()
}

// SetTransform records the applied transform.
func (s *Surface) SetTransform(tf viewport.Transform) {
	s.mu.Lock()
	s.tf = tf
	s.applied++
	s.mu.Unlock()
}

// Transform returns the last transform applied to the surface.
func (s *Surface) Transform() viewport.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tf
}

// Applied returns how many times SetTransform has been called.
func (s *Surface) Applied() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}

// Subscribers returns the total number of active registrations across
// every event kind. Tests use it to prove Destroy released each listener.
func (s *Surface) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.subs {
		n += len(m)
	}
	return n
}

// Dispatch delivers ev to every handler registered for its kind and
// reports whether any handler consumed it. Handlers run outside the
// surface lock, in registration order.
func (s *Surface) Dispatch(ev viewport.Event) bool {
	s.mu.Lock()
	handlers := make([]viewport.Handler, 0, len(s.subs[ev.Kind]))
	ids := make([]uint64, 0, len(s.subs[ev.Kind]))
	for id := range s.subs[ev.Kind] {
		ids = append(ids, id)
	}
	// Map order is random; deliver in subscription order.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		handlers = append(handlers, s.subs[ev.Kind][id])
	}
	s.mu.Unlock()

	consumed := false
	for _, h := range handlers {
		if h(ev) {
			consumed = true
		}
	}
	return consumed
}
