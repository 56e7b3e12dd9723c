// Package device describes controllable source devices and the optional
// control capabilities they expose to the panel
package device

// Device is anything that can be routed as a source
type Device interface {
	Key() string
	Name() string
}

// ChannelControls is implemented by tuners
type ChannelControls interface {
	ChannelUp(pressed bool)
	ChannelDown(pressed bool)
	LastChannel(pressed bool)
	Guide(pressed bool)
	Info(pressed bool)
	Exit(pressed bool)
}

// ColorControls is implemented by devices with red/green/yellow/blue keys
type ColorControls interface {
	Red(pressed bool)
	Green(pressed bool)
	Yellow(pressed bool)
	Blue(pressed bool)
}

// DPadControls is implemented by devices with a navigation pad
type DPadControls interface {
	Up(pressed bool)
	Down(pressed bool)
	Left(pressed bool)
	Right(pressed bool)
	Select(pressed bool)
	Menu(pressed bool)
}

// DvrControls is implemented by recorders
type DvrControls interface {
	DvrList(pressed bool)
	Record(pressed bool)
}

// NumericKeypadControls is implemented by devices with a 0-9 keypad
type NumericKeypadControls interface {
	Digit(n int, pressed bool)
	KeypadAccessory1(pressed bool)
	KeypadAccessory2(pressed bool)
}

// PowerControls is implemented by devices that can be switched on and off
type PowerControls interface {
	PowerOn()
	PowerOff()
	PowerToggle()
}

// TransportControls is implemented by media players
type TransportControls interface {
	Play(pressed bool)
	Pause(pressed bool)
	Rewind(pressed bool)
	FastForward(pressed bool)
	ChapterMinus(pressed bool)
	ChapterPlus(pressed bool)
	Stop(pressed bool)
	Record(pressed bool)
}

// SetTopBoxControls is implemented by set-top boxes. The Has* queries tell
// which parts of the set-top box page apply.
type SetTopBoxControls interface {
	DvrList(pressed bool)
	Replay(pressed bool)
	HasDvr() bool
	HasDpad() bool
	HasNumeric() bool
	HasPresets() bool
}

// DiscPlayerControls is implemented by disc players
type DiscPlayerControls interface {
	TransportControls
	Eject(pressed bool)
}

// UIDisplayInfo exposes the page type the panel shows for a device
type UIDisplayInfo interface {
	DisplayUIType() uint32
}

// Capabilities holds the capability handles of one device. A nil field
// means the device does not have that capability.
type Capabilities struct {
	Channel    ChannelControls
	Color      ColorControls
	DPad       DPadControls
	Dvr        DvrControls
	Keypad     NumericKeypadControls
	Power      PowerControls
	Transport  TransportControls
	SetTopBox  SetTopBoxControls
	DiscPlayer DiscPlayerControls
	UIInfo     UIDisplayInfo
}

// CapabilityProvider is implemented by devices that declare their
// capabilities instead of having them probed
type CapabilityProvider interface {
	Capabilities() Capabilities
}

// Probe computes the capability set of d. Devices that implement
// CapabilityProvider are trusted; others are inspected by interface.
func Probe(d Device) Capabilities {
	if d == nil {
		return Capabilities{}
	}
	if p, ok := d.(CapabilityProvider); ok {
		return p.Capabilities()
	}

	var c Capabilities
	c.Channel, _ = d.(ChannelControls)
	c.Color, _ = d.(ColorControls)
	c.DPad, _ = d.(DPadControls)
	c.Dvr, _ = d.(DvrControls)
	c.Keypad, _ = d.(NumericKeypadControls)
	c.Power, _ = d.(PowerControls)
	c.Transport, _ = d.(TransportControls)
	c.SetTopBox, _ = d.(SetTopBoxControls)
	c.DiscPlayer, _ = d.(DiscPlayerControls)
	c.UIInfo, _ = d.(UIDisplayInfo)
	return c
}

// Names lists the capabilities present, in a fixed order
func (c Capabilities) Names() []string {
	var names []string
	add := func(present bool, name string) {
		if present {
			names = append(names, name)
		}
	}
	add(c.Channel != nil, CapChannel)
	add(c.Color != nil, CapColor)
	add(c.DPad != nil, CapDPad)
	add(c.Dvr != nil, CapDvr)
	add(c.Keypad != nil, CapKeypad)
	add(c.Power != nil, CapPower)
	add(c.Transport != nil, CapTransport)
	add(c.SetTopBox != nil, CapSetTopBox)
	add(c.DiscPlayer != nil, CapDiscPlayer)
	add(c.UIInfo != nil, CapUIDisplay)
	return names
}

// Capability names used in configuration
const (
	CapChannel    = "channel"
	CapColor      = "color"
	CapDPad       = "dpad"
	CapDvr        = "dvr"
	CapKeypad     = "keypad"
	CapPower      = "power"
	CapTransport  = "transport"
	CapSetTopBox  = "settopbox"
	CapDiscPlayer = "discplayer"
	CapUIDisplay  = "uidisplay"
)
