// Package dispatch provides the single logical context every panel, room
// and timer callback runs on
package dispatch

import (
	"context"
	"log/slog"
)

// Poster schedules work on the dispatch context
type Poster interface {
	Post(fn func())
}

// Caller runs work on the dispatch context and waits for it
type Caller interface {
	Poster
	Call(ctx context.Context, fn func()) error
}

// Inline runs posted work immediately on the caller's goroutine. It is
// meant for tests and for code that is already on the dispatch context.
type Inline struct{}

// Post runs fn now
func (Inline) Post(fn func()) {
	fn()
}

// Call runs fn now unless ctx is already done
func (Inline) Call(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

// Loop serializes posted work on one goroutine
type Loop struct {
	queue chan func()
	log   *slog.Logger
}

// NewLoop creates a Loop with a queue of the given size
func NewLoop(size int, log *slog.Logger) *Loop {
	if size <= 0 {
		size = 256
	}
	return &Loop{
		queue: make(chan func(), size),
		log:   log,
	}
}

// Post queues fn. It blocks only if the queue is full.
func (l *Loop) Post(fn func()) {
	l.queue <- fn
}

// Call runs fn on the loop and waits for it to finish
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case l.queue <- func() {
		defer close(done)
		fn()
	}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued work until ctx is cancelled
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		// One faulty handler must not stop the panel
		if r := recover(); r != nil {
			l.log.Error("recovered from panic in dispatched callback", "panic", r)
		}
	}()
	fn()
}
