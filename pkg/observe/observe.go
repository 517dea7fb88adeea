// Package observe provides small generic subscription primitives: an
// Emitter fanning values out to registered subscribers and a Value
// combining an Emitter with a current snapshot.
package observe

import "sync"

// Emitter fans values out to subscribers. Subscribers are keyed so a
// subscription can be cancelled independently of registration order.
type Emitter[T any] struct {
	mu     sync.RWMutex
	subs   map[uint64]func(T)
	nextID uint64
}

// NewEmitter creates an empty emitter.
func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{subs: make(map[uint64]func(T))}
}

// Subscribe registers fn and returns a cancel function that removes the
// registration. Cancel is idempotent.
func (e *Emitter[T]) Subscribe(fn func(T)) (cancel func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Emit invokes every current subscriber with v. Subscribers are snapshotted
// under the read lock and invoked outside it, so a subscriber may
// subscribe, cancel, or trigger another Emit without deadlocking.
func (e *Emitter[T]) Emit(v T) {
	e.mu.RLock()
	fns := make([]func(T), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.RUnlock()
	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of active subscriptions.
func (e *Emitter[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}

// Value is an Emitter with a current value: Set stores the value and then
// emits it, Get returns the latest snapshot.
type Value[T any] struct {
	Emitter[T]
	mu sync.RWMutex
	v  T
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	v := &Value[T]{v: initial}
	v.subs = make(map[uint64]func(T))
	return v
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v
}

// Set stores next and notifies subscribers.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	v.v = next
	v.mu.Unlock()
	v.Emit(next)
}
