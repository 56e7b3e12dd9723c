// Package countdown provides the cancellable seconds countdown that gates a
// pending room shutdown
package countdown

import (
	"strconv"
	"time"

	"github.com/navikt/roompanel/internal/clock"
	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/feedback"
)

// Timer counts down SecondsToCount seconds, one tick per second.
// All methods must be called on the dispatch context.
type Timer struct {
	// SecondsToCount is read on Start
	SecondsToCount int

	clock clock.Clock
	post  dispatch.Poster

	isRunning     *feedback.Bool
	percent       *feedback.Int
	timeRemaining *feedback.String

	hasStarted   feedback.Event
	hasFinished  feedback.Event
	wasCancelled feedback.Event

	finishAt   time.Time
	tick       clock.Timer
	generation int
}

// New creates a stopped Timer
func New(c clock.Clock, post dispatch.Poster, seconds int) *Timer {
	return &Timer{
		SecondsToCount: seconds,
		clock:          c,
		post:           post,
		isRunning:      feedback.NewValue(false),
		percent:        feedback.NewValue(0),
		timeRemaining:  feedback.NewValue(""),
	}
}

// IsRunningFeedback is true while counting
func (t *Timer) IsRunningFeedback() *feedback.Bool { return t.isRunning }

// PercentFeedback is the remaining share of the countdown, 0..100
func (t *Timer) PercentFeedback() *feedback.Int { return t.percent }

// TimeRemainingFeedback is the remaining whole seconds as text
func (t *Timer) TimeRemainingFeedback() *feedback.String { return t.timeRemaining }

// HasStarted fires when Start begins a countdown
func (t *Timer) HasStarted() *feedback.Event { return &t.hasStarted }

// HasFinished fires when the countdown runs out or Finish is called
func (t *Timer) HasFinished() *feedback.Event { return &t.hasFinished }

// WasCancelled fires when Cancel stops a running countdown
func (t *Timer) WasCancelled() *feedback.Event { return &t.wasCancelled }

// Start begins counting. A running timer is left alone.
func (t *Timer) Start() {
	if t.isRunning.Get() {
		return
	}
	t.finishAt = t.clock.Now().Add(time.Duration(t.SecondsToCount) * time.Second)
	t.isRunning.Set(true)
	t.update()
	t.hasStarted.Fire()
	t.schedule()
}

// Reset restarts a running countdown from the full duration
func (t *Timer) Reset() {
	if !t.isRunning.Get() {
		return
	}
	t.stopTicking()
	t.finishAt = t.clock.Now().Add(time.Duration(t.SecondsToCount) * time.Second)
	t.update()
	t.schedule()
}

// Cancel stops a running countdown without finishing it. Ticks already
// queued on the dispatch context are discarded.
func (t *Timer) Cancel() {
	if !t.isRunning.Get() {
		return
	}
	t.stopTicking()
	t.isRunning.Set(false)
	t.wasCancelled.Fire()
}

// Finish ends a running countdown immediately as if it had run out
func (t *Timer) Finish() {
	if !t.isRunning.Get() {
		return
	}
	t.stopTicking()
	t.percent.Set(0)
	t.timeRemaining.Set("0")
	t.isRunning.Set(false)
	t.hasFinished.Fire()
}

func (t *Timer) schedule() {
	generation := t.generation
	t.tick = t.clock.AfterFunc(time.Second, func() {
		t.post.Post(func() {
			if generation != t.generation || !t.isRunning.Get() {
				return
			}
			if t.update() <= 0 {
				t.Finish()
				return
			}
			t.schedule()
		})
	})
}

func (t *Timer) stopTicking() {
	t.generation++
	if t.tick != nil {
		t.tick.Stop()
		t.tick = nil
	}
}

// update refreshes the feedbacks and returns the remaining seconds
func (t *Timer) update() int {
	remaining := t.finishAt.Sub(t.clock.Now())
	seconds := int((remaining + time.Second - 1) / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	percent := 0
	if t.SecondsToCount > 0 {
		percent = seconds * 100 / t.SecondsToCount
	}
	t.percent.Set(percent)
	t.timeRemaining.Set(strconv.Itoa(seconds))
	return seconds
}
