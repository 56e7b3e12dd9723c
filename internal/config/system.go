package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // panel time zones must resolve in images without zoneinfo

	"gopkg.in/yaml.v3"

	"github.com/navikt/roompanel/internal/device"
	"github.com/navikt/roompanel/internal/emergency"
	"github.com/navikt/roompanel/internal/models"
)

// ErrInvalidConfig is returned by Validate for inconsistent system files
var ErrInvalidConfig = errors.New("invalid system configuration")

// System is the YAML description of the control system: its inputs, the
// devices, the rooms built from them and the panels showing the rooms
type System struct {
	Platform    Platform           `yaml:"platform"`
	Devices     []device.Spec      `yaml:"devices"`
	SourceLists models.SourceLists `yaml:"source_lists"`
	Rooms       []Room             `yaml:"rooms"`
	Panels      []Panel            `yaml:"panels"`
}

// Platform describes the processor
type Platform struct {
	DigitalInputs int `yaml:"digital_inputs"`
}

// Room is the configuration of one room
type Room struct {
	Key                    string            `yaml:"key"`
	Name                   string            `yaml:"name"`
	LogoURL                string            `yaml:"logo_url"`
	SourceList             string            `yaml:"source_list"`
	DefaultPresentRoute    string            `yaml:"default_present_route"`
	WarmupSeconds          int               `yaml:"warmup_seconds"`
	CooldownSeconds        int               `yaml:"cooldown_seconds"`
	ShutdownPromptSeconds  int               `yaml:"shutdown_prompt_seconds"`
	ShutdownVacancySeconds int               `yaml:"shutdown_vacancy_seconds"`
	Codec                  *Codec            `yaml:"codec"`
	Volume                 *Volume           `yaml:"volume"`
	Emergency              *emergency.Config `yaml:"emergency"`
}

// WarmupTime returns the warm-up period
func (r Room) WarmupTime() time.Duration { return time.Duration(r.WarmupSeconds) * time.Second }

// CooldownTime returns the cool-down period
func (r Room) CooldownTime() time.Duration { return time.Duration(r.CooldownSeconds) * time.Second }

// Codec is the room's call device
type Codec struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

// Volume is the room's volume control
type Volume struct {
	Key   string `yaml:"key"`
	Level uint16 `yaml:"level"`
}

// Panel is one touch panel
type Panel struct {
	Key         string `yaml:"key"`
	DefaultRoom string `yaml:"default_room"`
	// TimeZone formats meeting times, e.g. Europe/Oslo. Empty means local time.
	TimeZone            string `yaml:"time_zone"`
	SourceListCapacity  int    `yaml:"source_list_capacity"`
	MeetingListCapacity int    `yaml:"meeting_list_capacity"`
}

// Location returns the panel's time zone
func (p Panel) Location() (*time.Location, error) {
	if p.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(p.TimeZone)
}

// Load reads and validates the system file at path
func Load(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a system file
func Parse(data []byte) (*System, error) {
	var sys System
	if err := yaml.Unmarshal(data, &sys); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	return &sys, nil
}

// Room returns the room with the given key
func (s *System) Room(key string) (Room, bool) {
	for _, r := range s.Rooms {
		if r.Key == key {
			return r, true
		}
	}
	return Room{}, false
}

// Validate checks every cross reference of the system file
func (s *System) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if s.Platform.DigitalInputs < 0 {
		fail("platform digital_inputs must not be negative")
	}

	devices := make(map[string]bool)
	for _, d := range s.Devices {
		if err := d.Validate(); err != nil {
			fail("%v", err)
			continue
		}
		if devices[d.Key] {
			fail("duplicate device key %q", d.Key)
		}
		devices[d.Key] = true
	}

	for listKey, list := range s.SourceLists {
		for itemKey, item := range list {
			if item.SourceKey != "" && !devices[item.SourceKey] {
				fail("source list %q item %q: unknown device %q", listKey, itemKey, item.SourceKey)
			}
		}
	}

	rooms := make(map[string]bool)
	for _, r := range s.Rooms {
		if r.Key == "" {
			fail("room key is required")
			continue
		}
		if rooms[r.Key] {
			fail("duplicate room key %q", r.Key)
		}
		rooms[r.Key] = true

		list, ok := s.SourceLists[r.SourceList]
		if !ok {
			fail("room %q: unknown source list %q", r.Key, r.SourceList)
		} else if r.DefaultPresentRoute != "" {
			if _, ok := list[r.DefaultPresentRoute]; !ok {
				fail("room %q: default route %q is not in source list %q", r.Key, r.DefaultPresentRoute, r.SourceList)
			}
		}
		if r.WarmupSeconds < 0 || r.CooldownSeconds < 0 {
			fail("room %q: warm-up and cool-down must not be negative", r.Key)
		}
		if r.Codec != nil && r.Codec.Key == "" {
			fail("room %q: codec key is required", r.Key)
		}
		if r.Volume != nil && r.Volume.Key == "" {
			fail("room %q: volume key is required", r.Key)
		}
		if r.Emergency != nil {
			if err := r.Emergency.Validate(s.Platform.DigitalInputs); err != nil {
				errs = append(errs, fmt.Errorf("%w: room %q: %w", ErrInvalidConfig, r.Key, err))
			}
		}
	}

	panels := make(map[string]bool)
	for _, p := range s.Panels {
		if p.Key == "" {
			fail("panel key is required")
			continue
		}
		if panels[p.Key] {
			fail("duplicate panel key %q", p.Key)
		}
		panels[p.Key] = true
		if p.DefaultRoom != "" && !rooms[p.DefaultRoom] {
			fail("panel %q: unknown default room %q", p.Key, p.DefaultRoom)
		}
		if _, err := p.Location(); err != nil {
			fail("panel %q: %v", p.Key, err)
		}
	}

	return errors.Join(errs...)
}
