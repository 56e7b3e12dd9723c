// Package orchestrator drives the room control part of a touch panel. It
// binds to one room at a time and projects the room's state onto the panel.
package orchestrator

import (
	"log/slog"
	"time"

	"github.com/navikt/roompanel/internal/clock"
	"github.com/navikt/roompanel/internal/countdown"
	"github.com/navikt/roompanel/internal/device"
	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/feedback"
	"github.com/navikt/roompanel/internal/models"
	"github.com/navikt/roompanel/internal/pagemgr"
	"github.com/navikt/roompanel/internal/panel"
	"github.com/navikt/roompanel/internal/room"
	"github.com/navikt/roompanel/internal/shutdown"
	"github.com/navikt/roompanel/internal/srl"
)

// DisplayMode is what the activity area of the panel is showing
type DisplayMode int

const (
	ModeStart DisplayMode = iota
	ModePresentation
	ModeAudioSetup
	ModeCall
)

// String returns the string representation of a display mode
func (m DisplayMode) String() string {
	return [...]string{"start", "presentation", "audio-setup", "call"}[m]
}

// Room is the room the orchestrator binds to
type Room interface {
	Key() string
	Name() string
	LogoURL() string
	SourceList() models.SourceList

	OnFeedback() *feedback.Bool
	IsWarmingUpFeedback() *feedback.Bool
	IsCoolingDownFeedback() *feedback.Bool
	CurrentSourceInfo() *feedback.Phased[*models.SourceListItem]
	CurrentVolumeControls() *feedback.Phased[device.BasicVolume]
	ConfigChanged() *feedback.Event

	ShutdownPromptTimer() *countdown.Timer
	ShutdownType() models.ShutdownType
	Codec() room.Codec

	RunDefaultCallRoute()
	RunDefaultPresentRoute() bool
	RunRouteAction(key string, onComplete func())
	StartShutdown(kind models.ShutdownType)
}

// Config tunes an orchestrator
type Config struct {
	// SourceListCapacity is the number of source rows the panel can show
	SourceListCapacity int
	// MeetingListCapacity is the number of meeting rows the panel can show
	MeetingListCapacity int
	// NextMeetingWindow is how long before its start a meeting is prompted
	NextMeetingWindow time.Duration
	// NextMeetingCheckInterval is how often the schedule is checked for prompts
	NextMeetingCheckInterval time.Duration
	// Location is used to format meeting times
	Location *time.Location
}

func (c Config) withDefaults() Config {
	if c.SourceListCapacity <= 0 {
		c.SourceListCapacity = 3
	}
	if c.MeetingListCapacity <= 0 {
		c.MeetingListCapacity = 10
	}
	if c.NextMeetingWindow <= 0 {
		c.NextMeetingWindow = 5 * time.Minute
	}
	if c.NextMeetingCheckInterval <= 0 {
		c.NextMeetingCheckInterval = time.Minute
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	return c
}

// Orchestrator is the room UI of one panel. Every method must be called on
// the dispatch context.
type Orchestrator struct {
	surface panel.Surface
	clock   clock.Clock
	post    dispatch.Poster
	log     *slog.Logger
	cfg     Config

	sourceList  *srl.List
	footerList  *srl.List
	meetingList *srl.List
	popups      *panel.Interlock
	binder      *device.Binder
	pages       *pagemgr.Registry
	shutdown    *shutdown.Coordinator

	room           Room
	bindings       feedback.Bindings
	volumeBindings feedback.Bindings
	warmDial       *feedback.Subscription

	mode        DisplayMode
	visible     bool
	callVisible bool
	currentPage pagemgr.PageManager

	lastMeetingDismissedID string
	promptedMeeting        *models.Meeting

	ribbonTimer clock.Timer
	ribbonGen   int
	checkTimer  clock.Timer
	checkGen    int
}

// New creates an orchestrator for the panel s. caps resolves device
// capability sets, nil means device.Probe.
func New(s panel.Surface, cfg Config, caps func(device.Device) device.Capabilities, c clock.Clock, post dispatch.Poster, log *slog.Logger) *Orchestrator {
	cfg = cfg.withDefaults()
	o := &Orchestrator{
		surface:     s,
		clock:       c,
		post:        post,
		log:         log,
		cfg:         cfg,
		sourceList:  srl.New(s, panel.ListSourceStaging, cfg.SourceListCapacity),
		footerList:  srl.New(s, panel.ListActivityFooter, 3),
		meetingList: srl.New(s, panel.ListMeetings, cfg.MeetingListCapacity),
		popups:      panel.NewInterlock(s),
		binder:      device.NewBinder(s, caps, log),
		pages:       pagemgr.NewRegistry(s, caps),
		mode:        ModeStart,
	}
	o.shutdown = shutdown.New(s, panel.NewModalDialog(s), o.setActivityFooterFeedbacks, log)

	s.SetPressAction(panel.JoinHeaderCalendarPress, o.CalendarPress)
	s.SetPressAction(panel.JoinHeaderCallStatusPress, o.ShowActiveCallsList)
	s.SetPressAction(panel.JoinNextMeetingJoinPress, o.joinPromptedMeeting)
	s.SetPressAction(panel.JoinNextMeetingDismissPress, o.dismissPromptedMeeting)

	s.SetString(panel.JoinCurrentRoomName, "Select a room")
	o.setupActivityFooter(false)
	return o
}

// Room returns the bound room, or nil
func (o *Orchestrator) Room() Room { return o.room }

// Mode returns the current display mode
func (o *Orchestrator) Mode() DisplayMode { return o.mode }

// IsVisible reports whether the room UI is showing
func (o *Orchestrator) IsVisible() bool { return o.visible }

// CallVisible reports whether the call surface is showing
func (o *Orchestrator) CallVisible() bool { return o.callVisible }

// LastMeetingDismissedID is the meeting that will not be prompted again
func (o *Orchestrator) LastMeetingDismissedID() string { return o.lastMeetingDismissedID }

// Show shows the room UI
func (o *Orchestrator) Show() {
	o.visible = true
	o.surface.SetBool(panel.JoinActivityPageVisible, true)
	if o.room != nil && !o.callVisible && o.room.OnFeedback().Get() {
		o.showCurrentSource(o.room.CurrentSourceInfo().Get())
	}
}

// Hide hides the room UI
func (o *Orchestrator) Hide() {
	o.visible = false
	o.hideCurrentPage()
	o.popups.Hide()
	o.surface.SetBool(panel.JoinActivityPageVisible, false)
}

// SetCurrentRoom binds r. Nil or the current room are ignored.
func (o *Orchestrator) SetCurrentRoom(r Room) {
	if r == nil || r == o.room {
		return
	}
	o.RefreshCurrentRoom(r)
}

// RefreshCurrentRoom unbinds the current room, if any, and binds r
func (o *Orchestrator) RefreshCurrentRoom(r Room) {
	if o.room != nil {
		o.unbind()
	}
	o.room = r
	if r == nil {
		o.surface.SetString(panel.JoinCurrentRoomName, "Select a room")
		return
	}
	o.bind()
}

func (o *Orchestrator) bind() {
	r := o.room
	o.log.Info("binding room", "room", r.Key())

	o.rebuildSourceList()
	o.surface.SetString(panel.JoinCurrentRoomName, r.Name())
	o.showLogo()

	o.shutdown.Bind(r)

	o.bindings.Add(
		r.OnFeedback().Subscribe(func(bool) { o.syncOnFeedback() }),
		r.IsWarmingUpFeedback().Subscribe(o.warmingChanged),
		r.IsCoolingDownFeedback().Subscribe(o.coolingChanged),
		r.CurrentVolumeControls().Subscribe(o.volumeDeviceChanged),
		r.CurrentSourceInfo().Subscribe(o.sourceChanged),
		r.ConfigChanged().Subscribe(func() { o.RefreshCurrentRoom(o.room) }),
	)
	o.syncOnFeedback()
	o.primeRibbon()
	o.refreshAudioDeviceConnections(r.CurrentVolumeControls().Get())
	o.refreshSourceInfo()

	if codec := r.Codec(); codec != nil {
		o.bindings.Add(
			codec.InCallFeedback().Subscribe(func(bool) { o.inCallChanged() }),
			codec.SharingContentIsOnFeedback().Subscribe(func(bool) { o.setSharingContentStatus() }),
			codec.IncomingCall().Subscribe(o.PrepareForCodecIncomingCall),
		)
		if sched := o.schedule(); sched != nil {
			o.bindings.Add(sched.MeetingsListHasChanged().Subscribe(func() {
				o.refreshMeetingsList()
				o.checkNextMeeting()
			}))
			o.refreshMeetingsList()
			o.scheduleNextMeetingCheck()
		}
	}
	o.setSharingContentStatus()

	o.surface.SetPressAction(panel.JoinCallStopSharingPress, func() {
		o.room.RunRouteAction(room.RouteCodecOsd, nil)
	})
}

func (o *Orchestrator) unbind() {
	r := o.room
	o.log.Info("unbinding room", "room", r.Key())

	o.bindings.Release()
	o.clearAudioDeviceConnections()
	o.disconnectSource(r.CurrentSourceInfo().Get())
	o.shutdown.Unbind()

	o.warmDial.Unsubscribe()
	o.warmDial = nil
	o.stopNextMeetingCheck()
	o.hideNextMeetingPopup()
	o.promptedMeeting = nil
	o.meetingList.Clear()

	o.surface.ClearBoolAction(panel.JoinCallStopSharingPress)
	o.pages.Reset()
}

// schedule returns the call device's schedule, or nil
func (o *Orchestrator) schedule() room.Schedule {
	aware, ok := o.room.Codec().(room.ScheduleAware)
	if !ok {
		return nil
	}
	return aware.CodecSchedule()
}

// view is the room state a projection is computed from
type view struct {
	on       bool
	inCall   bool
	sharing  bool
	shutdown bool
	source   *models.SourceListItem
}

func (o *Orchestrator) view() view {
	if o.room == nil {
		return view{}
	}
	v := view{
		on:       o.room.OnFeedback().Get(),
		shutdown: o.room.ShutdownType() != models.ShutdownNone,
		source:   o.room.CurrentSourceInfo().Get(),
	}
	if codec := o.room.Codec(); codec != nil {
		v.inCall = codec.InCallFeedback().Get()
		v.sharing = codec.SharingContentIsOnFeedback().Get()
	}
	return v
}

func (o *Orchestrator) syncOnFeedback() {
	on := o.room.OnFeedback().Get()
	o.surface.SetBool(panel.JoinRoomIsOn, on)
	o.surface.SetBool(panel.JoinStartPageVisible, !on)

	if on {
		o.setupActivityFooter(true)
		o.surface.SetBool(panel.JoinSelectASourceVisible, false)
		o.surface.SetBool(panel.JoinVolumeDualMuteVisible, true)
	} else {
		o.mode = ModeStart
		if o.callVisible {
			o.hideCall()
		}
		o.setupActivityFooter(false)
		o.showLogo()
		o.surface.SetBool(panel.JoinVolumeDualMuteVisible, false)
		o.surface.SetBool(panel.JoinSourceStagingBarVisible, false)
		// Let the next-meeting prompt come back
		o.lastMeetingDismissedID = ""
		o.warmDial.Unsubscribe()
		o.warmDial = nil
	}
	o.setActivityFooterFeedbacks()
}

func (o *Orchestrator) showLogo() {
	url := ""
	if o.room != nil {
		url = o.room.LogoURL()
	}
	if url == "" {
		o.surface.SetBool(panel.JoinLogoDefaultVisible, true)
		o.surface.SetBool(panel.JoinLogoURLVisible, false)
		return
	}
	o.surface.SetBool(panel.JoinLogoDefaultVisible, false)
	o.surface.SetBool(panel.JoinLogoURLVisible, true)
	o.surface.SetString(panel.JoinLogoURL, url)
}

func (o *Orchestrator) hideLogo() {
	o.surface.SetBool(panel.JoinLogoDefaultVisible, false)
	o.surface.SetBool(panel.JoinLogoURLVisible, false)
}

func (o *Orchestrator) showCall() {
	o.callVisible = true
	o.surface.SetBool(panel.JoinCallStagingBarVisible, true)
	o.surface.SetBool(panel.JoinCallSurfaceVisible, true)
}

func (o *Orchestrator) hideCall() {
	o.callVisible = false
	o.surface.SetBool(panel.JoinCallSurfaceVisible, false)
	o.surface.SetBool(panel.JoinCallStagingBarVisible, false)
}

// PrepareForCodecIncomingCall clears the way for the incoming call screen
func (o *Orchestrator) PrepareForCodecIncomingCall() {
	o.shutdown.CancelPrompt()
	o.popups.Hide()
}

// CalendarPress toggles the meetings list
func (o *Orchestrator) CalendarPress() {
	o.popups.ShowWithToggle(panel.JoinMeetingsListVisible)
}

// ShowActiveCallsList toggles the active calls list. It only opens while in a call.
func (o *Orchestrator) ShowActiveCallsList() {
	o.surface.SetBool(panel.JoinCallEndAllConfirmVisible, true)
	if o.popups.IsShown(panel.JoinHeaderActiveCallsListVisible) {
		o.popups.ShowWithToggle(panel.JoinHeaderActiveCallsListVisible)
		return
	}
	if o.view().inCall {
		o.popups.ShowWithToggle(panel.JoinHeaderActiveCallsListVisible)
	}
}
