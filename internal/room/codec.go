package room

import (
	"log/slog"
	"sync"

	"github.com/navikt/roompanel/internal/device"
	"github.com/navikt/roompanel/internal/feedback"
	"github.com/navikt/roompanel/internal/models"
)

// Schedule is a calendar of meetings for the room's call device
type Schedule interface {
	Meetings() []*models.Meeting
	MeetingsListHasChanged() *feedback.Event
}

// Codec is the room's call device
type Codec interface {
	device.Device
	InCallFeedback() *feedback.Bool
	SharingContentIsOnFeedback() *feedback.Bool
	// IncomingCall fires when a call starts ringing
	IncomingCall() *feedback.Event
	Dial(m *models.Meeting)
	HangUp()
}

// ScheduleAware is implemented by codecs that know the room's schedule
type ScheduleAware interface {
	CodecSchedule() Schedule
}

// SimulatedCodec is a call device driven by API calls instead of hardware
type SimulatedCodec struct {
	key  string
	name string
	log  *slog.Logger

	inCall   *feedback.Bool
	sharing  *feedback.Bool
	incoming feedback.Event
	schedule Schedule

	mu     sync.Mutex
	dialed []string
}

// NewSimulatedCodec creates an idle codec. schedule may be nil.
func NewSimulatedCodec(key, name string, schedule Schedule, log *slog.Logger) *SimulatedCodec {
	if name == "" {
		name = key
	}
	return &SimulatedCodec{
		key:      key,
		name:     name,
		log:      log,
		inCall:   feedback.NewValue(false),
		sharing:  feedback.NewValue(false),
		schedule: schedule,
	}
}

func (c *SimulatedCodec) Key() string  { return c.key }
func (c *SimulatedCodec) Name() string { return c.name }

func (c *SimulatedCodec) InCallFeedback() *feedback.Bool             { return c.inCall }
func (c *SimulatedCodec) SharingContentIsOnFeedback() *feedback.Bool { return c.sharing }
func (c *SimulatedCodec) IncomingCall() *feedback.Event              { return &c.incoming }

// CodecSchedule returns the schedule, or nil when the codec has none
func (c *SimulatedCodec) CodecSchedule() Schedule {
	return c.schedule
}

// Dial joins the meeting
func (c *SimulatedCodec) Dial(m *models.Meeting) {
	if m == nil {
		return
	}
	c.mu.Lock()
	c.dialed = append(c.dialed, m.ID)
	c.mu.Unlock()

	c.log.Info("dialing meeting", "codec", c.key, "meeting", m.ID, "dial_string", m.DialString)
	c.inCall.Set(true)
}

// HangUp ends every call and stops sharing
func (c *SimulatedCodec) HangUp() {
	if c.inCall.Get() {
		c.log.Info("hanging up", "codec", c.key)
	}
	c.sharing.Set(false)
	c.inCall.Set(false)
}

// Ring signals an incoming call
func (c *SimulatedCodec) Ring() {
	c.log.Info("incoming call", "codec", c.key)
	c.incoming.Fire()
}

// Answer accepts a ringing call
func (c *SimulatedCodec) Answer() {
	c.inCall.Set(true)
}

// SetSharing turns content sharing into the call on or off
func (c *SimulatedCodec) SetSharing(on bool) {
	c.sharing.Set(on && c.inCall.Get())
}

// Dialed returns the ids of dialed meetings
func (c *SimulatedCodec) Dialed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.dialed))
	copy(out, c.dialed)
	return out
}
