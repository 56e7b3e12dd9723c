package device

import (
	"log/slog"

	"github.com/navikt/roompanel/internal/feedback"
)

// BasicVolume is a volume control without level feedback
type BasicVolume interface {
	VolumeUp(pressed bool)
	VolumeDown(pressed bool)
	MuteToggle()
}

// VolumeWithFeedback is a volume control that reports its level and mute state
type VolumeWithFeedback interface {
	BasicVolume
	SetVolume(level uint16)
	VolumeLevelFeedback() *feedback.Value[uint16]
	MuteFeedback() *feedback.Bool
}

// VolumeStep is the level change of one up/down press
const VolumeStep = 65535 / 20

// Amplifier is a simulated volume control with feedback
type Amplifier struct {
	key   string
	log   *slog.Logger
	level *feedback.Value[uint16]
	muted *feedback.Bool
}

// NewAmplifier creates an unmuted amplifier at level
func NewAmplifier(key string, level uint16, log *slog.Logger) *Amplifier {
	return &Amplifier{
		key:   key,
		log:   log,
		level: feedback.NewValue(level),
		muted: feedback.NewValue(false),
	}
}

func (a *Amplifier) Key() string  { return a.key }
func (a *Amplifier) Name() string { return a.key }

// VolumeUp raises the level one step per press
func (a *Amplifier) VolumeUp(pressed bool) {
	if !pressed {
		return
	}
	level := int(a.level.Get()) + VolumeStep
	if level > 65535 {
		level = 65535
	}
	a.SetVolume(uint16(level))
}

// VolumeDown lowers the level one step per press
func (a *Amplifier) VolumeDown(pressed bool) {
	if !pressed {
		return
	}
	level := int(a.level.Get()) - VolumeStep
	if level < 0 {
		level = 0
	}
	a.SetVolume(uint16(level))
}

func (a *Amplifier) MuteToggle() {
	a.muted.Set(!a.muted.Get())
	a.log.Debug("mute toggled", "device", a.key, "muted", a.muted.Get())
}

func (a *Amplifier) SetVolume(level uint16) {
	if a.level.Set(level) {
		a.log.Debug("volume set", "device", a.key, "level", level)
	}
}

func (a *Amplifier) VolumeLevelFeedback() *feedback.Value[uint16] { return a.level }

func (a *Amplifier) MuteFeedback() *feedback.Bool { return a.muted }
