// Package feedback provides observable values with change notification
package feedback

import (
	"sync"
)

// Subscription is a handle to a registered handler
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe detaches the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

type entry[T any] struct {
	id    uint64
	fn    func(T)
	alive bool
}

// hub keeps handlers in subscription order
type hub[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []*entry[T]
}

func (h *hub[T]) subscribe(fn func(T)) *Subscription {
	h.mu.Lock()
	h.nextID++
	e := &entry[T]{id: h.nextID, fn: fn, alive: true}
	h.handlers = append(h.handlers, e)
	h.mu.Unlock()

	return &Subscription{cancel: func() { h.remove(e.id) }}
}

func (h *hub[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.handlers {
		if e.id == id {
			e.alive = false
			h.handlers = append(h.handlers[:i:i], h.handlers[i+1:]...)
			return
		}
	}
}

func (h *hub[T]) notify(v T) {
	h.mu.Lock()
	snapshot := make([]*entry[T], len(h.handlers))
	copy(snapshot, h.handlers)
	h.mu.Unlock()

	for _, e := range snapshot {
		// A handler may unsubscribe a later one while we dispatch
		h.mu.Lock()
		alive := e.alive
		h.mu.Unlock()
		if alive {
			e.fn(v)
		}
	}
}

func (h *hub[T]) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}

// Value is an observable value. Handlers are notified after the value changed.
type Value[T comparable] struct {
	mu    sync.RWMutex
	value T
	hub   hub[T]
}

// NewValue creates a Value holding initial
func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set stores x and notifies subscribers if it differs from the current value.
// It reports whether the value changed.
func (v *Value[T]) Set(x T) bool {
	v.mu.Lock()
	if v.value == x {
		v.mu.Unlock()
		return false
	}
	v.value = x
	v.mu.Unlock()

	v.hub.notify(x)
	return true
}

// FireUpdate notifies subscribers with the current value even if it did not change
func (v *Value[T]) FireUpdate() {
	v.hub.notify(v.Get())
}

// Subscribe registers fn for every change
func (v *Value[T]) Subscribe(fn func(T)) *Subscription {
	return v.hub.subscribe(fn)
}

// Once registers fn for the first change whose value satisfies match.
// The subscription removes itself before fn runs.
func (v *Value[T]) Once(match func(T) bool, fn func(T)) *Subscription {
	var sub *Subscription
	var fired bool
	sub = v.hub.subscribe(func(x T) {
		if fired || !match(x) {
			return
		}
		fired = true
		sub.Unsubscribe()
		fn(x)
	})
	return sub
}

// Subscribers returns the number of attached handlers
func (v *Value[T]) Subscribers() int {
	return v.hub.count()
}

// Bool, Int and String are the feedback kinds the panel understands
type (
	Bool   = Value[bool]
	Int    = Value[int]
	String = Value[string]
)

// Event is a notification without payload
type Event struct {
	hub hub[struct{}]
}

// Fire notifies all subscribers
func (e *Event) Fire() {
	e.hub.notify(struct{}{})
}

// Subscribe registers fn for every Fire
func (e *Event) Subscribe(fn func()) *Subscription {
	return e.hub.subscribe(func(struct{}) { fn() })
}

// Subscribers returns the number of attached handlers
func (e *Event) Subscribers() int {
	return e.hub.count()
}
