package frame

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestManualStep(t *testing.T) {
	base := time.Unix(0, 0)
	m := NewManual(base)

	var fired []time.Time
	m.Request(func(now time.Time) { fired = append(fired, now) })
	m.Request(func(now time.Time) { fired = append(fired, now) })

	if m.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", m.Pending())
	}

	at := base.Add(16 * time.Millisecond)
	if n := m.Step(at); n != 2 {
		t.Fatalf("Step fired %d, want 2", n)
	}
	for _, ts := range fired {
		if !ts.Equal(at) {
			t.Errorf("callback saw %v, want %v", ts, at)
		}
	}
	if m.Pending() != 0 {
		t.Errorf("Pending = %d after step, want 0", m.Pending())
	}

	// A request is one-shot: stepping again fires nothing.
	if n := m.Step(at.Add(time.Millisecond)); n != 0 {
		t.Errorf("second Step fired %d, want 0", n)
	}
}

func TestManualRequestDuringStep(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	steps := 0
	var step func(time.Time)
	step = func(time.Time) {
		steps++
		if steps < 3 {
			m.Request(step)
		}
	}
	m.Request(step)

	// A callback that re-requests runs once per step, not repeatedly
	// within the same one.
	for i := 0; i < 5; i++ {
		m.Advance(16 * time.Millisecond)
	}
	if steps != 3 {
		t.Errorf("steps = %d, want 3", steps)
	}
}

func TestManualCancel(t *testing.T) {
	m := NewManual(time.Unix(0, 0))

	fired := false
	cancel := m.Request(func(time.Time) { fired = true })
	cancel()

	m.Advance(16 * time.Millisecond)
	if fired {
		t.Error("cancelled request fired")
	}
	// Cancel after firing is a no-op.
	cancel2 := m.Request(func(time.Time) {})
	m.Advance(16 * time.Millisecond)
	cancel2()
}

func TestManualAdvanceClock(t *testing.T) {
	base := time.Unix(100, 0)
	m := NewManual(base)
	m.Advance(40 * time.Millisecond)
	if want := base.Add(40 * time.Millisecond); !m.Now().Equal(want) {
		t.Errorf("Now = %v, want %v", m.Now(), want)
	}
}

func TestTickerDeliversFrames(t *testing.T) {
	defer goleak.VerifyNone(t)

	ticker := NewTicker(time.Millisecond)
	ticker.Start()
	defer ticker.Stop()

	done := make(chan time.Time, 1)
	ticker.Request(func(now time.Time) { done <- now })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("frame callback never fired")
	}
}

func TestTickerStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	ticker := NewTicker(time.Millisecond)
	ticker.Start()
	ticker.Start() // no-op
	ticker.Stop()
	ticker.Stop() // no-op
}

func TestTickerCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ticker := NewTicker(time.Millisecond)
	cancel := ticker.Request(func(time.Time) { t.Error("cancelled request fired") })
	cancel()

	ticker.Start()
	time.Sleep(20 * time.Millisecond)
	ticker.Stop()
}
