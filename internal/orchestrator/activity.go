package orchestrator

import (
	"github.com/navikt/roompanel/internal/device"
	"github.com/navikt/roompanel/internal/feedback"
	"github.com/navikt/roompanel/internal/models"
	"github.com/navikt/roompanel/internal/panel"
	"github.com/navikt/roompanel/internal/room"
	"github.com/navikt/roompanel/internal/srl"
)

// Footer is the state of the activity footer buttons
type Footer struct {
	// Items is 2 (share, call) while the room is off and 3 (share, call, end) while on
	Items    int
	ShareLit bool
	CallLit  bool
	EndLit   bool
}

// FooterState computes the footer from the display mode, whether any
// shutdown is in progress and the room power
func FooterState(mode DisplayMode, shutdownInProgress, roomOn bool) Footer {
	f := Footer{
		Items:    2,
		ShareLit: mode == ModePresentation && !shutdownInProgress,
		CallLit:  mode == ModeCall && !shutdownInProgress,
		EndLit:   shutdownInProgress,
	}
	if roomOn {
		f.Items = 3
	}
	return f
}

// Footer slots
const (
	footerShare = 1
	footerCall  = 2
	footerEnd   = 3
)

type footerItem struct {
	label string
	press func()
}

// setupActivityFooter lays out the footer for the room power state
func (o *Orchestrator) setupActivityFooter(on bool) {
	items := []footerItem{
		{"Share", o.ActivityShareButtonPressed},
		{"Call", o.ActivityCallButtonPressed},
	}
	if on {
		items = append(items, footerItem{"End Meeting", o.EndMeetingPress})
		o.surface.SetUshort(panel.JoinPresentationStagingCaretMode, 2)
		o.surface.SetUshort(panel.JoinCallStagingCaretMode, 0)
	} else {
		o.surface.SetUshort(panel.JoinPresentationStagingCaretMode, 1)
		o.surface.SetUshort(panel.JoinCallStagingCaretMode, 5)
	}
	srl.Rebuild(o.footerList, items, nil, nil, func(r srl.Row, it footerItem) {
		r.SetString(1, it.label)
		r.OnPress(1, it.press)
	})
}

// setActivityFooterFeedbacks lights the footer buttons
func (o *Orchestrator) setActivityFooterFeedbacks() {
	v := o.view()
	f := FooterState(o.mode, v.shutdown, v.on)

	lit := func(slot int, on bool) {
		o.surface.SetListBool(panel.ListSig{List: panel.ListActivityFooter, Slot: slot, Field: 1}, on)
	}
	lit(footerShare, f.ShareLit)
	lit(footerCall, f.CallLit)
	if o.footerList.Count() >= footerEnd {
		lit(footerEnd, f.EndLit)
	}
}

// IncludeSource reports whether a source belongs in the source list
func IncludeSource(item models.SourceListItem, inCall bool, mode DisplayMode) bool {
	if !item.IncludeInSourceList {
		return false
	}
	if item.DisableCodecSharing && (inCall || mode == ModeCall) {
		return false
	}
	return true
}

func (o *Orchestrator) rebuildSourceList() {
	if o.room == nil {
		o.sourceList.Clear()
		return
	}
	v := o.view()
	currentKey := ""
	if v.source != nil {
		currentKey = v.source.Key
	}

	n := srl.Rebuild(o.sourceList, o.room.SourceList().Sorted(),
		func(item models.SourceListItem) bool { return IncludeSource(item, v.inCall, o.mode) },
		nil,
		func(r srl.Row, item models.SourceListItem) {
			key := item.Key
			r.SetString(1, item.PreferredName)
			r.SetString(2, item.Icon)
			r.SetBool(1, key == currentKey)
			r.OnPress(1, func() { o.UiSelectSource(key) })
		})
	o.log.Debug("source list rebuilt", "room", o.room.Key(), "items", n, "in_call", v.inCall, "mode", o.mode)
}

// UiSelectSource routes the source. The panel follows through the room's
// source feedback.
func (o *Orchestrator) UiSelectSource(key string) {
	if o.room == nil {
		return
	}
	o.room.RunRouteAction(key, nil)
}

// ActivityCallButtonPressed switches to the call surface, powering the room
// on through the call route if needed
func (o *Orchestrator) ActivityCallButtonPressed() {
	if o.room == nil || o.callVisible {
		return
	}
	o.hideLogo()
	o.hideNextMeetingPopup()
	o.surface.SetBool(panel.JoinStartPageVisible, false)
	o.surface.SetBool(panel.JoinSourceStagingBarVisible, false)
	o.surface.SetBool(panel.JoinSelectASourceVisible, false)
	if o.currentPage != nil {
		o.currentPage.Hide()
	}
	if !o.room.OnFeedback().Get() {
		o.room.RunDefaultCallRoute()
	}
	o.mode = ModeCall
	o.setActivityFooterFeedbacks()
	o.showCall()
}

// ActivityShareButtonPressed switches to the source staging bar
func (o *Orchestrator) ActivityShareButtonPressed() {
	if o.room == nil {
		return
	}
	o.rebuildSourceList()
	if o.callVisible {
		o.hideCall()
	}
	o.hideNextMeetingPopup()
	o.surface.SetBool(panel.JoinStartPageVisible, false)
	o.surface.SetBool(panel.JoinCallStagingBarVisible, false)
	o.surface.SetBool(panel.JoinSourceStagingBarVisible, true)

	if !o.room.OnFeedback().Get() {
		if !o.room.RunDefaultPresentRoute() {
			o.surface.SetBool(panel.JoinSelectASourceVisible, true)
		}
	} else {
		src := o.room.CurrentSourceInfo().Get()
		if src == nil || src.Key == room.RouteCodecOsd {
			o.surface.SetBool(panel.JoinSelectASourceVisible, true)
		} else {
			o.showCurrentSource(src)
		}
	}

	o.mode = ModePresentation
	o.rebuildSourceList()
	o.setActivityFooterFeedbacks()
}

// EndMeetingPress asks the room for a manual shutdown
func (o *Orchestrator) EndMeetingPress() {
	if o.room == nil || !o.room.OnFeedback().Get() || o.room.ShutdownPromptTimer().IsRunningFeedback().Get() {
		return
	}
	o.room.StartShutdown(models.ShutdownManual)
}

func (o *Orchestrator) sourceChanged(phase feedback.Phase, item *models.SourceListItem) {
	if phase == feedback.WillChange {
		o.disconnectSource(item)
		return
	}
	o.refreshSourceInfo()
	o.rebuildSourceList()
	o.setSharingContentStatus()
}

func (o *Orchestrator) disconnectSource(previous *models.SourceListItem) {
	if previous == nil {
		return
	}
	o.hideCurrentPage()
	o.binder.Disconnect(previous.SourceDevice)
}

func (o *Orchestrator) hideCurrentPage() {
	if o.currentPage != nil {
		o.currentPage.Hide()
		o.currentPage = nil
	}
}

func (o *Orchestrator) refreshSourceInfo() {
	item := o.room.CurrentSourceInfo().Get()
	if o.visible && !o.callVisible {
		o.showCurrentSource(item)
	}

	if item == nil {
		o.surface.SetString(panel.JoinCurrentSourceName, "Room is off")
		o.surface.SetString(panel.JoinCurrentSourceIcon, "Power")
		return
	}
	o.surface.SetString(panel.JoinCurrentSourceName, item.PreferredName)
	o.surface.SetString(panel.JoinCurrentSourceIcon, item.Icon)

	if item.SourceDevice != nil {
		o.binder.Connect(item.SourceDevice)
	}
}

// showCurrentSource shows the page of the routed source device
func (o *Orchestrator) showCurrentSource(item *models.SourceListItem) {
	if item == nil {
		return
	}
	if item.SourceDevice == nil {
		o.surface.SetBool(panel.JoinSelectASourceVisible, true)
		return
	}
	pm := o.pages.For(item.SourceDevice)
	if pm == nil {
		return
	}
	o.surface.SetBool(panel.JoinSelectASourceVisible, false)
	if o.currentPage != nil && o.currentPage != pm {
		o.currentPage.Hide()
	}
	o.currentPage = pm
	pm.Show()
}

// inCallChanged moves off a source that may not be shared before the list
// is rebuilt for the new call state
func (o *Orchestrator) inCallChanged() {
	v := o.view()
	if v.inCall && v.source != nil && v.source.DisableCodecSharing {
		o.log.Info("call started on a non-sharable source, switching to the codec", "source", v.source.Key)
		o.room.RunRouteAction(room.RouteCodecOsd, nil)
	}
	o.rebuildSourceList()
}

func (o *Orchestrator) setSharingContentStatus() {
	v := o.view()
	o.surface.SetBool(panel.JoinCallSharedSourceInfoVisible, v.sharing)

	label := "None"
	if v.sharing && v.source != nil {
		label = v.source.PreferredName
	}
	o.surface.SetString(panel.JoinCallSharedSourceNameText, label)
}

// Volume

func (o *Orchestrator) volumeDeviceChanged(phase feedback.Phase, dev device.BasicVolume) {
	if phase == feedback.WillChange {
		o.clearAudioDeviceConnections()
		return
	}
	o.refreshAudioDeviceConnections(dev)
}

func (o *Orchestrator) refreshAudioDeviceConnections(dev device.BasicVolume) {
	if dev == nil {
		o.surface.SetUshort(panel.JoinVolumeSliderValue, 0)
		return
	}
	o.surface.SetBoolAction(panel.JoinVolumeUpPress, dev.VolumeUp)
	o.surface.SetBoolAction(panel.JoinVolumeDownPress, dev.VolumeDown)
	o.surface.SetPressAction(panel.JoinVolumeMutePressAndFB, dev.MuteToggle)

	fb, ok := dev.(device.VolumeWithFeedback)
	if !ok {
		o.surface.SetUshort(panel.JoinVolumeSliderValue, 0)
		return
	}
	o.surface.SetUshortAction(panel.JoinVolumeSliderValue, fb.SetVolume)
	o.volumeBindings.Add(
		panel.LinkBool(o.surface, fb.MuteFeedback(), panel.JoinVolumeMutePressAndFB),
		panel.LinkUshort(o.surface, fb.VolumeLevelFeedback(), panel.JoinVolumeSliderValue),
	)
}

func (o *Orchestrator) clearAudioDeviceConnections() {
	o.surface.ClearBoolAction(panel.JoinVolumeUpPress)
	o.surface.ClearBoolAction(panel.JoinVolumeDownPress)
	o.surface.ClearBoolAction(panel.JoinVolumeMutePressAndFB)
	o.surface.ClearUshortAction(panel.JoinVolumeSliderValue)
	o.volumeBindings.Release()
}
