// Package emergency shuts a room down from a hard-wired contact input
package emergency

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/navikt/roompanel/internal/feedback"
	"github.com/navikt/roompanel/internal/platform"
)

var (
	// ErrInvalidPort is returned when the trigger port does not exist on the platform
	ErrInvalidPort = errors.New("invalid emergency input port")
	// ErrUnsupportedTrigger is returned for trigger types or behaviors that are not implemented
	ErrUnsupportedTrigger = errors.New("unsupported emergency trigger")
)

// Supported trigger type and behavior
const (
	TriggerContact   = "contact"
	BehaviorShutdown = "shutdown"
)

// Trigger selects the input that fires the emergency behavior
type Trigger struct {
	Type   string `yaml:"type" json:"type"`
	Number int    `yaml:"number" json:"number"`
	// TriggerOnClose fires on the open-to-closed edge, otherwise on closed-to-open
	TriggerOnClose bool `yaml:"trigger_on_close" json:"trigger_on_close"`
}

// Config is the emergency definition of a room
type Config struct {
	Behavior string  `yaml:"behavior" json:"behavior"`
	Trigger  Trigger `yaml:"trigger" json:"trigger"`
}

// Validate checks c against a platform with ports digital inputs
func (c Config) Validate(ports int) error {
	if !strings.EqualFold(c.Trigger.Type, TriggerContact) {
		return fmt.Errorf("%w: type %q", ErrUnsupportedTrigger, c.Trigger.Type)
	}
	if c.Behavior != BehaviorShutdown {
		return fmt.Errorf("%w: behavior %q", ErrUnsupportedTrigger, c.Behavior)
	}
	if c.Trigger.Number < 1 || c.Trigger.Number > ports {
		return fmt.Errorf("%w: %d (platform has %d)", ErrInvalidPort, c.Trigger.Number, ports)
	}
	return nil
}

// Room is the room an emergency shuts down
type Room interface {
	Key() string
	Shutdown()
}

// Inputs is the set of digital inputs a trigger can watch
type Inputs interface {
	NumberOfDigitalInputPorts() int
	DigitalInput(n int) (*platform.DigitalInput, error)
}

// ContactClosure runs the emergency behavior when its input reaches the
// trigger edge
type ContactClosure struct {
	key            string
	room           Room
	behavior       string
	triggerOnClose bool
	sub            *feedback.Subscription
	log            *slog.Logger
}

// NewContactClosure validates cfg and starts watching the input
func NewContactClosure(key string, cfg Config, room Room, inputs Inputs, log *slog.Logger) (*ContactClosure, error) {
	if err := cfg.Validate(inputs.NumberOfDigitalInputPorts()); err != nil {
		return nil, fmt.Errorf("emergency %s: %w", key, err)
	}
	input, err := inputs.DigitalInput(cfg.Trigger.Number)
	if err != nil {
		return nil, fmt.Errorf("emergency %s: %w: %v", key, ErrInvalidPort, err)
	}

	c := &ContactClosure{
		key:            key,
		room:           room,
		behavior:       cfg.Behavior,
		triggerOnClose: cfg.Trigger.TriggerOnClose,
		log:            log.With("emergency", key, "room", room.Key()),
	}
	c.sub = input.StateFeedback().Subscribe(c.stateChanged)
	c.log.Info("emergency input registered", "port", cfg.Trigger.Number, "trigger_on_close", c.triggerOnClose)
	return c, nil
}

// Key returns the emergency key
func (c *ContactClosure) Key() string { return c.key }

func (c *ContactClosure) stateChanged(closed bool) {
	if closed && c.triggerOnClose || !closed && !c.triggerOnClose {
		c.RunEmergencyBehavior()
	}
}

// RunEmergencyBehavior runs the configured behavior at once
func (c *ContactClosure) RunEmergencyBehavior() {
	if c.behavior == BehaviorShutdown {
		c.log.Warn("emergency input triggered, shutting room down")
		c.room.Shutdown()
	}
}

// Close stops watching the input
func (c *ContactClosure) Close() {
	c.sub.Unsubscribe()
}
