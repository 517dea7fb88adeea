package observe

import (
	"testing"
)

func TestEmitterSubscribeEmit(t *testing.T) {
	e := NewEmitter[int]()

	var got []int
	cancel := e.Subscribe(func(v int) { got = append(got, v) })

	e.Emit(1)
	e.Emit(2)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("received %v, want [1 2]", got)
	}

	cancel()
	e.Emit(3)
	if len(got) != 2 {
		t.Errorf("received %v after cancel, want no more values", got)
	}
}

func TestEmitterCancelIdempotent(t *testing.T) {
	e := NewEmitter[int]()
	c1 := e.Subscribe(func(int) {})
	c2 := e.Subscribe(func(int) {})

	c1()
	c1()
	if e.Len() != 1 {
		t.Errorf("Len = %d after double cancel, want 1", e.Len())
	}
	c2()
	if e.Len() != 0 {
		t.Errorf("Len = %d, want 0", e.Len())
	}
}

func TestEmitterReentrantSubscriber(t *testing.T) {
	e := NewEmitter[int]()

	// A subscriber that cancels itself during delivery must not deadlock.
	var cancel func()
	calls := 0
	cancel = e.Subscribe(func(int) {
		calls++
		cancel()
	})

	e.Emit(1)
	e.Emit(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestValueGetSet(t *testing.T) {
	v := NewValue("initial")
	if v.Get() != "initial" {
		t.Fatalf("Get = %q, want initial", v.Get())
	}

	var notified string
	v.Subscribe(func(s string) { notified = s })

	v.Set("next")
	if v.Get() != "next" {
		t.Errorf("Get = %q, want next", v.Get())
	}
	if notified != "next" {
		t.Errorf("subscriber saw %q, want next", notified)
	}
}
