// Package shutdown presents the end-meeting countdown dialog while a room's
// shutdown prompt is running
package shutdown

import (
	"fmt"
	"log/slog"

	"github.com/navikt/roompanel/internal/countdown"
	"github.com/navikt/roompanel/internal/feedback"
	"github.com/navikt/roompanel/internal/models"
	"github.com/navikt/roompanel/internal/panel"
)

// EndNowButton is the dialog button that ends the meeting at once. Any
// other button cancels the shutdown.
const EndNowButton = 2

// Room is the part of a room the coordinator watches
type Room interface {
	OnFeedback() *feedback.Bool
	ShutdownPromptTimer() *countdown.Timer
	ShutdownType() models.ShutdownType
}

// Coordinator owns the shutdown dialog for one panel. It must only be used
// on the dispatch context.
type Coordinator struct {
	surface  panel.Surface
	modal    *panel.ModalDialog
	onChange func()
	log      *slog.Logger

	room     Room
	bindings feedback.Bindings

	timeRemainingSub *feedback.Subscription
	percentSub       *feedback.Subscription
	offSub           *feedback.Subscription
}

// New creates a coordinator. onChange runs whenever the shutdown state
// changes so the caller can refresh what depends on it.
func New(s panel.Surface, modal *panel.ModalDialog, onChange func(), log *slog.Logger) *Coordinator {
	if onChange == nil {
		onChange = func() {}
	}
	return &Coordinator{surface: s, modal: modal, onChange: onChange, log: log}
}

// Bind attaches to the prompt timer of r
func (c *Coordinator) Bind(r Room) {
	c.Unbind()
	c.room = r

	timer := r.ShutdownPromptTimer()
	c.bindings.Add(
		timer.HasStarted().Subscribe(c.started),
		timer.HasFinished().Subscribe(c.finished),
		timer.WasCancelled().Subscribe(c.cancelled),
	)
}

// Unbind detaches every handler and closes the dialog
func (c *Coordinator) Unbind() {
	if c.room == nil {
		return
	}
	c.bindings.Release()
	c.timeRemainingSub.Unsubscribe()
	c.percentSub.Unsubscribe()
	c.offSub.Unsubscribe()
	c.timeRemainingSub, c.percentSub, c.offSub = nil, nil, nil
	c.modal.Hide()
	c.room = nil
}

// ModalVisible reports whether the shutdown dialog is showing
func (c *Coordinator) ModalVisible() bool {
	return c.room != nil && c.modal.IsVisible()
}

// CancelPrompt presses cancel on a visible dialog
func (c *Coordinator) CancelPrompt() {
	if c.ModalVisible() {
		c.modal.Cancel()
	}
}

// TickHandlers reports which countdown projections are attached
func (c *Coordinator) TickHandlers() (timeRemaining, percent bool) {
	return c.timeRemainingSub != nil, c.percentSub != nil
}

func (c *Coordinator) started() {
	c.onChange()

	kind := c.room.ShutdownType()
	if kind != models.ShutdownManual && kind != models.ShutdownVacancy {
		return
	}
	timer := c.room.ShutdownPromptTimer()

	c.attachTicks(timer)

	// Close the dialog if the room goes off some other way
	c.offSub.Unsubscribe()
	c.offSub = c.room.OnFeedback().Once(func(on bool) bool { return !on }, func(bool) {
		c.modal.Hide()
		c.onChange()
	})

	c.surface.SetUshort(panel.JoinModalTimerGauge, gauge(timer.PercentFeedback().Get()))
	ok := c.modal.Present(panel.ModalOptions{
		Title:       "End Meeting",
		Icon:        "Power",
		Message:     endMessage(timer.TimeRemainingFeedback().Get()),
		Buttons:     2,
		Button1Text: "Cancel",
		Button2Text: "End Meeting Now",
		ShowGauge:   true,
		ShowCancel:  true,
	}, func(button int) {
		if button != EndNowButton {
			timer.Cancel()
			return
		}
		timer.Finish()
	})
	if !ok {
		c.log.Warn("shutdown dialog not shown, another dialog is visible", "type", kind)
	}
}

func (c *Coordinator) finished() {
	c.modal.Hide()
	c.onChange()
	c.timeRemainingSub.Unsubscribe()
	c.percentSub.Unsubscribe()
	c.offSub.Unsubscribe()
	c.timeRemainingSub, c.percentSub, c.offSub = nil, nil, nil
}

// cancelled keeps the time-remaining projection attached and drops the
// percent projection until the next start
func (c *Coordinator) cancelled() {
	c.modal.Hide()
	c.onChange()
	c.offSub.Unsubscribe()
	c.offSub = nil

	timer := c.room.ShutdownPromptTimer()
	if c.timeRemainingSub == nil {
		c.timeRemainingSub = timer.TimeRemainingFeedback().Subscribe(c.showTimeRemaining)
	}
	c.percentSub.Unsubscribe()
	c.percentSub = nil
}

func (c *Coordinator) attachTicks(timer *countdown.Timer) {
	if c.timeRemainingSub == nil {
		c.timeRemainingSub = timer.TimeRemainingFeedback().Subscribe(c.showTimeRemaining)
	}
	if c.percentSub == nil {
		c.percentSub = timer.PercentFeedback().Subscribe(func(p int) {
			c.surface.SetUshort(panel.JoinModalTimerGauge, gauge(p))
		})
	}
}

func (c *Coordinator) showTimeRemaining(seconds string) {
	c.surface.SetString(panel.JoinModalMessage, endMessage(seconds))
}

func endMessage(seconds string) string {
	return fmt.Sprintf("Meeting will end in %s seconds", seconds)
}

// gauge scales a percentage to the full ushort range
func gauge(percent int) uint16 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return uint16(percent * 65535 / 100)
}
