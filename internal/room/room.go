// Package room implements a presentation room with a call device: power
// sequencing, source routing, the shutdown prompt and volume control
package room

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/navikt/roompanel/internal/clock"
	"github.com/navikt/roompanel/internal/countdown"
	"github.com/navikt/roompanel/internal/device"
	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/feedback"
	"github.com/navikt/roompanel/internal/models"
)

// Route keys with a fixed meaning
const (
	// RouteOff powers the room off
	RouteOff = "roomOff"
	// RouteCodecOsd shows the call device's on-screen display
	RouteCodecOsd = "codecOsd"
)

// ErrUnknownRoute is logged when a route key is not in the source list
var ErrUnknownRoute = errors.New("unknown route")

// Config holds the settings of one room
type Config struct {
	Key                 string
	Name                string
	LogoURL             string
	SourceListKey       string
	DefaultPresentRoute string
	WarmupTime          time.Duration
	CooldownTime        time.Duration
	// ShutdownPromptSeconds is the countdown of a manual shutdown
	ShutdownPromptSeconds int
	// ShutdownVacancySeconds is the countdown of a vacancy shutdown
	ShutdownVacancySeconds int
}

// Room is a presentation room. All methods must be called on the dispatch context.
type Room struct {
	cfg     Config
	sources models.SourceList
	clock   clock.Clock
	post    dispatch.Poster
	log     *slog.Logger

	isOn      *feedback.Bool
	isWarming *feedback.Bool
	isCooling *feedback.Bool

	currentSource *feedback.Phased[*models.SourceListItem]
	volume        *feedback.Phased[device.BasicVolume]
	codec         Codec

	shutdownTimer *countdown.Timer
	shutdownType  models.ShutdownType

	configChanged feedback.Event

	powerTimer clock.Timer
	powerGen   int
}

// New creates a powered-off room. codec and volume may be nil.
func New(cfg Config, sources models.SourceList, codec Codec, volume device.BasicVolume, c clock.Clock, post dispatch.Poster, log *slog.Logger) *Room {
	if cfg.ShutdownPromptSeconds <= 0 {
		cfg.ShutdownPromptSeconds = 60
	}
	if cfg.ShutdownVacancySeconds <= 0 {
		cfg.ShutdownVacancySeconds = 120
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Key
	}

	r := &Room{
		cfg:           cfg,
		sources:       sources,
		clock:         c,
		post:          post,
		log:           log.With("room", cfg.Key),
		isOn:          feedback.NewValue(false),
		isWarming:     feedback.NewValue(false),
		isCooling:     feedback.NewValue(false),
		currentSource: feedback.NewPhased[*models.SourceListItem](nil),
		volume:        feedback.NewPhased(volume),
		codec:         codec,
		shutdownTimer: countdown.New(c, post, cfg.ShutdownPromptSeconds),
	}

	// The room reacts to its own prompt before any panel does
	r.shutdownTimer.HasFinished().Subscribe(func() {
		r.log.Info("shutdown prompt finished", "type", r.shutdownType)
		r.Shutdown()
	})
	r.shutdownTimer.WasCancelled().Subscribe(func() {
		r.log.Info("shutdown cancelled", "type", r.shutdownType)
		r.shutdownType = models.ShutdownNone
	})
	return r
}

func (r *Room) Key() string           { return r.cfg.Key }
func (r *Room) Name() string          { return r.cfg.Name }
func (r *Room) LogoURL() string       { return r.cfg.LogoURL }
func (r *Room) SourceListKey() string { return r.cfg.SourceListKey }

// SourceList returns the configured sources
func (r *Room) SourceList() models.SourceList { return r.sources }

func (r *Room) OnFeedback() *feedback.Bool            { return r.isOn }
func (r *Room) IsWarmingUpFeedback() *feedback.Bool   { return r.isWarming }
func (r *Room) IsCoolingDownFeedback() *feedback.Bool { return r.isCooling }

// CurrentSourceInfo is the routed source, nil when the room is off
func (r *Room) CurrentSourceInfo() *feedback.Phased[*models.SourceListItem] {
	return r.currentSource
}

// CurrentVolumeControls is the active volume device, possibly nil
func (r *Room) CurrentVolumeControls() *feedback.Phased[device.BasicVolume] {
	return r.volume
}

// SetVolumeDevice swaps the active volume device
func (r *Room) SetVolumeDevice(v device.BasicVolume) {
	r.volume.Set(v)
}

// Codec returns the call device, or nil
func (r *Room) Codec() Codec {
	return r.codec
}

func (r *Room) ShutdownPromptTimer() *countdown.Timer { return r.shutdownTimer }
func (r *Room) ShutdownType() models.ShutdownType     { return r.shutdownType }
func (r *Room) ShutdownPromptSeconds() int            { return r.cfg.ShutdownPromptSeconds }

// ConfigChanged fires after UpdateConfig
func (r *Room) ConfigChanged() *feedback.Event { return &r.configChanged }

// UpdateConfig replaces the room settings and source list. The room key cannot change.
func (r *Room) UpdateConfig(cfg Config, sources models.SourceList) error {
	if cfg.Key != r.cfg.Key {
		return fmt.Errorf("room key cannot change from %q to %q", r.cfg.Key, cfg.Key)
	}
	if cfg.ShutdownPromptSeconds <= 0 {
		cfg.ShutdownPromptSeconds = r.cfg.ShutdownPromptSeconds
	}
	if cfg.ShutdownVacancySeconds <= 0 {
		cfg.ShutdownVacancySeconds = r.cfg.ShutdownVacancySeconds
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Key
	}
	r.cfg = cfg
	r.sources = sources
	r.log.Info("room config changed")
	r.configChanged.Fire()
	return nil
}

// RunDefaultCallRoute routes the call device's display
func (r *Room) RunDefaultCallRoute() {
	r.RunRouteAction(RouteCodecOsd, nil)
}

// RunDefaultPresentRoute routes the configured default presentation source.
// It returns false when there is none.
func (r *Room) RunDefaultPresentRoute() bool {
	if r.cfg.DefaultPresentRoute == "" {
		return false
	}
	r.RunRouteAction(r.cfg.DefaultPresentRoute, nil)
	return true
}

// RunRouteAction routes the source with the given key, powering the room
// on if needed. RouteOff powers the room off. onComplete runs after the
// route was made.
func (r *Room) RunRouteAction(key string, onComplete func()) {
	if key == RouteOff {
		r.powerOff()
		if onComplete != nil {
			onComplete()
		}
		return
	}

	item, err := r.routeItem(key)
	if err != nil {
		r.log.Warn("route ignored", "error", err)
		return
	}

	if current := r.currentSource.Get(); current == nil || current.Key != item.Key {
		r.log.Info("routing source", "source", item.Key)
		r.currentSource.Set(item)
	}
	r.powerOn()

	if onComplete != nil {
		onComplete()
	}
}

func (r *Room) routeItem(key string) (*models.SourceListItem, error) {
	if item, ok := r.sources[key]; ok {
		item.Key = key
		return &item, nil
	}
	if key == RouteCodecOsd && r.codec != nil {
		return &models.SourceListItem{
			Key:           RouteCodecOsd,
			PreferredName: r.codec.Name(),
			Icon:          "Videocon",
			SourceKey:     r.codec.Key(),
			SourceDevice:  r.codec,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q in room %s", ErrUnknownRoute, key, r.cfg.Key)
}

func (r *Room) powerOn() {
	if r.isOn.Get() || r.isWarming.Get() {
		return
	}
	r.stopPowerTimer()
	r.isCooling.Set(false)

	if r.cfg.WarmupTime <= 0 {
		r.isOn.Set(true)
		return
	}
	r.isWarming.Set(true)
	r.afterPower(r.cfg.WarmupTime, func() {
		r.isOn.Set(true)
		r.isWarming.Set(false)
	})
}

func (r *Room) powerOff() {
	if !r.isOn.Get() && !r.isWarming.Get() {
		return
	}
	r.stopPowerTimer()
	r.log.Info("powering off")

	if r.codec != nil {
		r.codec.HangUp()
	}
	r.currentSource.Set(nil)
	r.isWarming.Set(false)
	r.isOn.Set(false)

	if r.cfg.CooldownTime <= 0 {
		return
	}
	r.isCooling.Set(true)
	r.afterPower(r.cfg.CooldownTime, func() {
		r.isCooling.Set(false)
	})
}

// afterPower runs fn on the dispatch context after d unless another power
// transition starts first
func (r *Room) afterPower(d time.Duration, fn func()) {
	gen := r.powerGen
	r.powerTimer = r.clock.AfterFunc(d, func() {
		r.post.Post(func() {
			if gen != r.powerGen {
				return
			}
			r.powerTimer = nil
			fn()
		})
	})
}

func (r *Room) stopPowerTimer() {
	r.powerGen++
	if r.powerTimer != nil {
		r.powerTimer.Stop()
		r.powerTimer = nil
	}
}

// StartShutdown requests a shutdown. Manual and vacancy shutdowns run the
// prompt countdown; an emergency shutdown powers off at once. A request
// while the prompt is running is ignored.
func (r *Room) StartShutdown(kind models.ShutdownType) {
	switch kind {
	case models.ShutdownManual, models.ShutdownVacancy:
		if r.shutdownTimer.IsRunningFeedback().Get() {
			r.log.Debug("shutdown already pending", "requested", kind, "pending", r.shutdownType)
			return
		}
		if kind == models.ShutdownManual {
			r.shutdownTimer.SecondsToCount = r.cfg.ShutdownPromptSeconds
		} else {
			r.shutdownTimer.SecondsToCount = r.cfg.ShutdownVacancySeconds
		}
		r.shutdownType = kind
		r.log.Info("shutdown requested", "type", kind, "seconds", r.shutdownTimer.SecondsToCount)
		r.shutdownTimer.Start()
	case models.ShutdownEmergency:
		r.log.Warn("emergency shutdown")
		r.shutdownType = kind
		r.Shutdown()
	}
}

// Shutdown powers the room off without a prompt. A running prompt is cancelled.
func (r *Room) Shutdown() {
	if r.shutdownTimer.IsRunningFeedback().Get() {
		r.shutdownTimer.Cancel()
	}
	r.RunRouteAction(RouteOff, nil)
	r.shutdownType = models.ShutdownNone
}

// Status returns the externally visible state
func (r *Room) Status() models.RoomStatus {
	status := models.RoomStatus{
		Key:          r.cfg.Key,
		Name:         r.cfg.Name,
		On:           r.isOn.Get(),
		WarmingUp:    r.isWarming.Get(),
		CoolingDown:  r.isCooling.Get(),
		ShutdownType: r.shutdownType,
	}
	if src := r.currentSource.Get(); src != nil {
		status.CurrentSourceKey = src.Key
		status.CurrentSourceName = src.PreferredName
	}
	if r.codec != nil {
		status.InCall = r.codec.InCallFeedback().Get()
		status.SharingContent = r.codec.SharingContentIsOnFeedback().Get()
	}
	if r.shutdownTimer.IsRunningFeedback().Get() {
		status.ShutdownPromptLeft = r.shutdownTimer.TimeRemainingFeedback().Get()
	}
	return status
}
