package device

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
)

// ErrUnknownCapability is returned for capability names that do not exist
var ErrUnknownCapability = errors.New("unknown device capability")

// Spec is the configuration of a simulated device
type Spec struct {
	Key          string   `yaml:"key"`
	Name         string   `yaml:"name"`
	Capabilities []string `yaml:"capabilities"`
	UIType       uint32   `yaml:"ui_type"`

	// Set-top box page sections
	HasDvr     bool `yaml:"has_dvr"`
	HasDpad    bool `yaml:"has_dpad"`
	HasNumeric bool `yaml:"has_numeric"`
	HasPresets bool `yaml:"has_presets"`
}

// Validate checks the capability names
func (s Spec) Validate() error {
	if s.Key == "" {
		return fmt.Errorf("device key is required")
	}
	for _, name := range s.Capabilities {
		switch name {
		case CapChannel, CapColor, CapDPad, CapDvr, CapKeypad, CapPower,
			CapTransport, CapSetTopBox, CapDiscPlayer, CapUIDisplay:
		default:
			return fmt.Errorf("device %s: %w: %q", s.Key, ErrUnknownCapability, name)
		}
	}
	return nil
}

// Simulated is a configurable stand-in for a controllable device. It logs
// and records every command it receives.
type Simulated struct {
	spec Spec
	caps Capabilities
	log  *slog.Logger

	mu       sync.Mutex
	commands []string
	powered  bool
}

// NewSimulated creates a device with the capabilities named in spec
func NewSimulated(spec Spec, log *slog.Logger) (*Simulated, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = spec.Key
	}

	d := &Simulated{spec: spec, log: log}
	for _, name := range spec.Capabilities {
		switch name {
		case CapChannel:
			d.caps.Channel = d
		case CapColor:
			d.caps.Color = d
		case CapDPad:
			d.caps.DPad = d
		case CapDvr:
			d.caps.Dvr = d
		case CapKeypad:
			d.caps.Keypad = d
		case CapPower:
			d.caps.Power = d
		case CapTransport:
			d.caps.Transport = d
		case CapSetTopBox:
			d.caps.SetTopBox = d
		case CapDiscPlayer:
			d.caps.DiscPlayer = d
		case CapUIDisplay:
			d.caps.UIInfo = d
		}
	}
	return d, nil
}

func (d *Simulated) Key() string  { return d.spec.Key }
func (d *Simulated) Name() string { return d.spec.Name }

// Capabilities returns the configured capability set
func (d *Simulated) Capabilities() Capabilities { return d.caps }

// Commands returns the commands received so far
func (d *Simulated) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.commands))
	copy(out, d.commands)
	return out
}

// IsPoweredOn reports the simulated power state
func (d *Simulated) IsPoweredOn() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.powered
}

func (d *Simulated) record(command string) {
	d.mu.Lock()
	d.commands = append(d.commands, command)
	d.mu.Unlock()
	d.log.Debug("device command", "device", d.spec.Key, "command", command)
}

// press records a button command on press only
func (d *Simulated) press(command string, pressed bool) {
	if pressed {
		d.record(command)
	}
}

func (d *Simulated) ChannelUp(p bool)   { d.press("channel_up", p) }
func (d *Simulated) ChannelDown(p bool) { d.press("channel_down", p) }
func (d *Simulated) LastChannel(p bool) { d.press("last_channel", p) }
func (d *Simulated) Guide(p bool)       { d.press("guide", p) }
func (d *Simulated) Info(p bool)        { d.press("info", p) }
func (d *Simulated) Exit(p bool)        { d.press("exit", p) }

func (d *Simulated) Red(p bool)    { d.press("red", p) }
func (d *Simulated) Green(p bool)  { d.press("green", p) }
func (d *Simulated) Yellow(p bool) { d.press("yellow", p) }
func (d *Simulated) Blue(p bool)   { d.press("blue", p) }

func (d *Simulated) Up(p bool)     { d.press("up", p) }
func (d *Simulated) Down(p bool)   { d.press("down", p) }
func (d *Simulated) Left(p bool)   { d.press("left", p) }
func (d *Simulated) Right(p bool)  { d.press("right", p) }
func (d *Simulated) Select(p bool) { d.press("select", p) }
func (d *Simulated) Menu(p bool)   { d.press("menu", p) }

func (d *Simulated) DvrList(p bool) { d.press("dvr_list", p) }
func (d *Simulated) Record(p bool)  { d.press("record", p) }
func (d *Simulated) Replay(p bool)  { d.press("replay", p) }

func (d *Simulated) Digit(n int, p bool)     { d.press("digit_"+strconv.Itoa(n), p) }
func (d *Simulated) KeypadAccessory1(p bool) { d.press("keypad_accessory_1", p) }
func (d *Simulated) KeypadAccessory2(p bool) { d.press("keypad_accessory_2", p) }

func (d *Simulated) PowerOn() {
	d.setPower(true)
	d.record("power_on")
}

func (d *Simulated) PowerOff() {
	d.setPower(false)
	d.record("power_off")
}

func (d *Simulated) PowerToggle() {
	d.mu.Lock()
	d.powered = !d.powered
	d.mu.Unlock()
	d.record("power_toggle")
}

func (d *Simulated) setPower(on bool) {
	d.mu.Lock()
	d.powered = on
	d.mu.Unlock()
}

func (d *Simulated) Play(p bool)         { d.press("play", p) }
func (d *Simulated) Pause(p bool)        { d.press("pause", p) }
func (d *Simulated) Rewind(p bool)       { d.press("rewind", p) }
func (d *Simulated) FastForward(p bool)  { d.press("fast_forward", p) }
func (d *Simulated) ChapterMinus(p bool) { d.press("chapter_minus", p) }
func (d *Simulated) ChapterPlus(p bool)  { d.press("chapter_plus", p) }
func (d *Simulated) Stop(p bool)         { d.press("stop", p) }
func (d *Simulated) Eject(p bool)        { d.press("eject", p) }

func (d *Simulated) HasDvr() bool     { return d.spec.HasDvr }
func (d *Simulated) HasDpad() bool    { return d.spec.HasDpad }
func (d *Simulated) HasNumeric() bool { return d.spec.HasNumeric }
func (d *Simulated) HasPresets() bool { return d.spec.HasPresets }

func (d *Simulated) DisplayUIType() uint32 { return d.spec.UIType }
