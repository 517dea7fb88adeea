// Package frame provides the frame-callback scheduling primitive behind
// animated viewport transitions: a Request-once callback in the style of
// requestAnimationFrame, backed either by a real ticker goroutine or by a
// manually stepped clock for deterministic tests and cooperative
// embedders.
package frame

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval approximates a 60fps display refresh.
const DefaultInterval = 16 * time.Millisecond

// Scheduler delivers one callback per request, at the next frame, with
// the frame's timestamp. The returned cancel function revokes a request
// that has not fired yet; cancelling after the callback ran is a no-op.
type Scheduler interface {
	Request(fn func(now time.Time)) (cancel func())
}

var (
	defaultOnce      sync.Once
	defaultScheduler *Ticker
)

// Default returns the process-wide ticker-backed scheduler, starting it
// on first use. Controllers fall back to it when no scheduler is
// configured.
func Default() Scheduler {
	defaultOnce.Do(func() {
		defaultScheduler = NewTicker(DefaultInterval)
		defaultScheduler.Start()
	})
	return defaultScheduler
}

type entry struct {
	id uint64
	fn func(time.Time)
}

// queue is the shared pending-request list. Callbacks are fired in
// request order; a fired batch is swapped out before running so callbacks
// can re-request without growing the batch being drained.
type queue struct {
	mu      sync.Mutex
	pending []entry
	nextID  uint64
}

func (q *queue) add(fn func(time.Time)) (cancel func()) {
	q.mu.Lock()
	q.nextID++
	id := q.nextID
	q.pending = append(q.pending, entry{id: id, fn: fn})
	q.mu.Unlock()
	return func() {
		q.mu.Lock()
		for i, e := range q.pending {
			if e.id == id {
				q.pending = append(q.pending[:i], q.pending[i+1:]...)
				break
			}
		}
		q.mu.Unlock()
	}
}

func (q *queue) drain() []entry {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()
	return batch
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Ticker drives frame callbacks from a real time.Ticker goroutine.
type Ticker struct {
	interval time.Duration
	queue    queue
	running  atomic.Bool
	done     chan struct{}
}

// NewTicker creates a stopped ticker scheduler. A non-positive interval
// selects DefaultInterval.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{interval: interval}
}

// Start launches the tick goroutine. Starting a running ticker is a
// no-op.
func (t *Ticker) Start() {
	if t.running.CompareAndSwap(false, true) {
		t.done = make(chan struct{})
		go t.loop(t.done)
	}
}

// Stop terminates the tick goroutine. Pending requests stay queued and
// fire after a later Start.
func (t *Ticker) Stop() {
	if t.running.CompareAndSwap(true, false) {
		close(t.done)
	}
}

// Request schedules fn for the next tick.
func (t *Ticker) Request(fn func(now time.Time)) (cancel func()) {
	return t.queue.add(fn)
}

func (t *Ticker) loop(done chan struct{}) {
	tick := time.NewTicker(t.interval)
	defer tick.Stop()
	for {
		select {
		case <-done:
			return
		case now := <-tick.C:
			for _, e := range t.queue.drain() {
				e.fn(now)
			}
		}
	}
}

// Manual is a hand-stepped scheduler for tests and cooperative embedders
// (a TUI advancing animations from its own tick loop). Requests queue
// until Step or Advance fires them with a synthetic clock.
type Manual struct {
	queue queue
	mu    sync.Mutex
	now   time.Time
}

// NewManual creates a manual scheduler whose clock starts at now.
func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

// Request queues fn until the next Step or Advance.
func (m *Manual) Request(fn func(now time.Time)) (cancel func()) {
	return m.queue.add(fn)
}

// Step sets the clock to now and fires every queued callback with it.
// Callbacks requested during the step wait for the next one. It returns
// the number of callbacks fired.
func (m *Manual) Step(now time.Time) int {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
	batch := m.queue.drain()
	for _, e := range batch {
		e.fn(now)
	}
	return len(batch)
}

// Advance moves the clock forward by d and fires queued callbacks.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	next := m.now.Add(d)
	m.mu.Unlock()
	return m.Step(next)
}

// Now returns the synthetic clock's current reading.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of queued callbacks.
func (m *Manual) Pending() int {
	return m.queue.len()
}
