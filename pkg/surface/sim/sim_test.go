package sim

import (
	"testing"

	"github.com/recera/vantage/pkg/geom"
	"github.com/recera/vantage/pkg/viewport"
)

func TestDispatchDeliversToKind(t *testing.T) {
	s := New(geom.RectOf(0, 0, 100, 100))

	var moves, downs int
	s.Subscribe(viewport.PointerMove, func(viewport.Event) bool { moves++; return false })
	s.Subscribe(viewport.PointerDown, func(viewport.Event) bool { downs++; return true })

	if s.Dispatch(viewport.Event{Kind: viewport.PointerMove}) {
		t.Error("move reported consumed")
	}
	if !s.Dispatch(viewport.Event{Kind: viewport.PointerDown}) {
		t.Error("down not reported consumed")
	}
	if moves != 1 || downs != 1 {
		t.Errorf("moves=%d downs=%d, want 1/1", moves, downs)
	}
}

func TestDispatchOrder(t *testing.T) {
	s := New(geom.RectOf(0, 0, 100, 100))

	var order []int
	s.Subscribe(viewport.Wheel, func(viewport.Event) bool { order = append(order, 1); return false })
	s.Subscribe(viewport.Wheel, func(viewport.Event) bool { order = append(order, 2); return false })
	s.Subscribe(viewport.Wheel, func(viewport.Event) bool { order = append(order, 3); return false })

	s.Dispatch(viewport.Event{Kind: viewport.Wheel})
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("delivery order = %v, want [1 2 3]", order)
	}
}

func TestCancelRemovesSubscription(t *testing.T) {
	s := New(geom.RectOf(0, 0, 100, 100))

	calls := 0
	cancel := s.Subscribe(viewport.KeyDown, func(viewport.Event) bool { calls++; return false })
	s.Subscribe(viewport.Wheel, func(viewport.Event) bool { return false })

	if s.Subscribers() != 2 {
		t.Fatalf("Subscribers = %d, want 2", s.Subscribers())
	}
	cancel()
	if s.Subscribers() != 1 {
		t.Errorf("Subscribers = %d after cancel, want 1", s.Subscribers())
	}

	s.Dispatch(viewport.Event{Kind: viewport.KeyDown})
	if calls != 0 {
		t.Error("cancelled handler still invoked")
	}
}

func TestBounds(t *testing.T) {
	s := New(geom.RectOf(0, 0, 640, 480))
	if b := s.Bounds(); b.Width != 640 || b.Height != 480 {
		t.Errorf("Bounds = %v", b)
	}
	s.SetBounds(geom.RectOf(0, 0, 1024, 768))
	if b := s.Bounds(); b.Width != 1024 || b.Height != 768 {
		t.Errorf("Bounds after resize = %v", b)
	}
}

func TestTransformRecording(t *testing.T) {
	s := New(geom.RectOf(0, 0, 100, 100))
	if s.Applied() != 0 {
		t.Fatalf("Applied = %d before any transform", s.Applied())
	}

	tf := viewport.Transform{X: 5, Y: -5, Scale: 2}
	s.SetTransform(tf)
	s.SetTransform(tf)

	if s.Applied() != 2 {
		t.Errorf("Applied = %d, want 2", s.Applied())
	}
	if s.Transform() != tf {
		t.Errorf("Transform = %v, want %v", s.Transform(), tf)
	}
}
