package orchestrator

import (
	"time"

	"github.com/navikt/roompanel/internal/panel"
)

// Ribbon messages for room power transitions
const (
	ribbonWarming  = "Room is powering on. Please wait..."
	ribbonWarmedUp = "Room is powered on. Welcome."
	ribbonCooling  = "Room is powering off. Please wait."

	ribbonWelcomeTimeout = 2 * time.Second
)

// ShowNotificationRibbon shows message in the notification ribbon. A
// pending auto-hide is cancelled; a timeout of zero keeps the ribbon up
// until HideNotificationRibbon.
func (o *Orchestrator) ShowNotificationRibbon(message string, timeout time.Duration) {
	o.stopRibbonTimer()
	o.surface.SetString(panel.JoinNotificationRibbonText, message)
	o.surface.SetBool(panel.JoinNotificationRibbonVisible, true)
	if timeout <= 0 {
		return
	}

	gen := o.ribbonGen
	o.ribbonTimer = o.clock.AfterFunc(timeout, func() {
		o.post.Post(func() {
			if gen != o.ribbonGen {
				return
			}
			o.ribbonTimer = nil
			o.surface.SetBool(panel.JoinNotificationRibbonVisible, false)
		})
	})
}

// HideNotificationRibbon hides the ribbon and cancels a pending auto-hide
func (o *Orchestrator) HideNotificationRibbon() {
	o.stopRibbonTimer()
	o.surface.SetBool(panel.JoinNotificationRibbonVisible, false)
}

func (o *Orchestrator) stopRibbonTimer() {
	o.ribbonGen++
	if o.ribbonTimer != nil {
		o.ribbonTimer.Stop()
		o.ribbonTimer = nil
	}
}

func (o *Orchestrator) warmingChanged(warming bool) {
	if warming {
		o.ShowNotificationRibbon(ribbonWarming, 0)
		return
	}
	o.ShowNotificationRibbon(ribbonWarmedUp, ribbonWelcomeTimeout)
}

func (o *Orchestrator) coolingChanged(cooling bool) {
	if cooling {
		o.ShowNotificationRibbon(ribbonCooling, 0)
		return
	}
	o.HideNotificationRibbon()
}

// primeRibbon shows a power transition already under way at bind time
func (o *Orchestrator) primeRibbon() {
	switch {
	case o.room.IsWarmingUpFeedback().Get():
		o.warmingChanged(true)
	case o.room.IsCoolingDownFeedback().Get():
		o.coolingChanged(true)
	}
}
