package feedback

import "sync"

// Phase tells a Phased subscriber which side of a transition it is seeing
type Phase int

const (
	// WillChange is delivered with the outgoing value, before the switch
	WillChange Phase = iota
	// DidChange is delivered with the incoming value, after the switch
	DidChange
)

// String returns the string representation of a phase
func (p Phase) String() string {
	return [...]string{"will-change", "did-change"}[p]
}

type phaseChange[T any] struct {
	phase Phase
	value T
}

// Phased is an observable reference whose subscribers see both sides of
// every transition. For a single Set, every WillChange handler runs before
// the value is replaced and before any DidChange handler.
type Phased[T any] struct {
	mu    sync.RWMutex
	value T
	hub   hub[phaseChange[T]]
}

// NewPhased creates a Phased holding initial
func NewPhased[T any](initial T) *Phased[T] {
	return &Phased[T]{value: initial}
}

// Get returns the current value
func (p *Phased[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set replaces the value, notifying WillChange with the old value and
// DidChange with the new one
func (p *Phased[T]) Set(x T) {
	p.hub.notify(phaseChange[T]{phase: WillChange, value: p.Get()})

	p.mu.Lock()
	p.value = x
	p.mu.Unlock()

	p.hub.notify(phaseChange[T]{phase: DidChange, value: x})
}

// Subscribe registers fn for both phases of every transition
func (p *Phased[T]) Subscribe(fn func(Phase, T)) *Subscription {
	return p.hub.subscribe(func(c phaseChange[T]) { fn(c.phase, c.value) })
}

// Subscribers returns the number of attached handlers
func (p *Phased[T]) Subscribers() int {
	return p.hub.count()
}
