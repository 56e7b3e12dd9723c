package device

import (
	"log/slog"

	"github.com/navikt/roompanel/internal/panel"
)

type button struct {
	join panel.Join
	fn   func(pressed bool)
}

// Binder links the control buttons of the current source device to the panel
type Binder struct {
	surface panel.Surface
	caps    func(Device) Capabilities
	log     *slog.Logger
}

// NewBinder creates a binder. caps resolves the capability set of a device,
// normally Registry.Capabilities; nil means Probe.
func NewBinder(s panel.Surface, caps func(Device) Capabilities, log *slog.Logger) *Binder {
	if caps == nil {
		caps = Probe
	}
	return &Binder{surface: s, caps: caps, log: log}
}

// Connect links the buttons of every capability d has
func (b *Binder) Connect(d Device) {
	if d == nil {
		return
	}
	buttons := b.buttons(d)
	for _, btn := range buttons {
		b.surface.SetBoolAction(btn.join, btn.fn)
	}
	b.log.Debug("linked device buttons", "device", d.Key(), "buttons", len(buttons))
}

// Disconnect unlinks the buttons linked by Connect for d
func (b *Binder) Disconnect(d Device) {
	if d == nil {
		return
	}
	buttons := b.buttons(d)
	for _, btn := range buttons {
		b.surface.ClearBoolAction(btn.join)
	}
	b.log.Debug("unlinked device buttons", "device", d.Key(), "buttons", len(buttons))
}

func (b *Binder) buttons(d Device) []button {
	c := b.caps(d)

	var out []button
	if c.Channel != nil {
		out = append(out, channelButtons(c.Channel)...)
	}
	if c.Color != nil {
		out = append(out, colorButtons(c.Color)...)
	}
	if c.DPad != nil {
		out = append(out, dpadButtons(c.DPad)...)
	}
	if c.Dvr != nil {
		out = append(out, dvrButtons(c.Dvr)...)
	}
	if c.Keypad != nil {
		out = append(out, keypadButtons(c.Keypad)...)
	}
	if c.Power != nil {
		out = append(out, powerButtons(c.Power)...)
	}
	if c.Transport != nil {
		out = append(out, transportButtons(c.Transport)...)
	}
	if c.SetTopBox != nil {
		out = append(out, setTopBoxButtons(c.SetTopBox)...)
	}
	if c.DiscPlayer != nil {
		out = append(out, button{panel.JoinEject, c.DiscPlayer.Eject})
	}
	return out
}

func channelButtons(c ChannelControls) []button {
	return []button{
		{panel.JoinChannelUp, c.ChannelUp},
		{panel.JoinChannelDown, c.ChannelDown},
		{panel.JoinLastChannel, c.LastChannel},
		{panel.JoinGuide, c.Guide},
		{panel.JoinInfo, c.Info},
		{panel.JoinExit, c.Exit},
	}
}

func colorButtons(c ColorControls) []button {
	return []button{
		{panel.JoinRed, c.Red},
		{panel.JoinGreen, c.Green},
		{panel.JoinYellow, c.Yellow},
		{panel.JoinBlue, c.Blue},
	}
}

func dpadButtons(c DPadControls) []button {
	return []button{
		{panel.JoinDPadUp, c.Up},
		{panel.JoinDPadDown, c.Down},
		{panel.JoinDPadLeft, c.Left},
		{panel.JoinDPadRight, c.Right},
		{panel.JoinDPadSelect, c.Select},
		{panel.JoinMenu, c.Menu},
	}
}

func dvrButtons(c DvrControls) []button {
	return []button{
		{panel.JoinDvrList, c.DvrList},
		{panel.JoinDvrRecord, c.Record},
	}
}

func keypadButtons(c NumericKeypadControls) []button {
	out := make([]button, 0, 12)
	for n := 0; n <= 9; n++ {
		out = append(out, button{panel.JoinKeypadDigit0 + panel.Join(n), func(pressed bool) { c.Digit(n, pressed) }})
	}
	return append(out,
		button{panel.JoinKeypadAccessory1, c.KeypadAccessory1},
		button{panel.JoinKeypadAccessory2, c.KeypadAccessory2},
	)
}

func setTopBoxButtons(c SetTopBoxControls) []button {
	return []button{
		{panel.JoinDvrList, c.DvrList},
		{panel.JoinReplay, c.Replay},
	}
}

// Power commands run on release
func powerButtons(c PowerControls) []button {
	onRelease := func(fn func()) func(bool) {
		return func(pressed bool) {
			if !pressed {
				fn()
			}
		}
	}
	return []button{
		{panel.JoinPowerOn, onRelease(c.PowerOn)},
		{panel.JoinPowerOff, onRelease(c.PowerOff)},
		{panel.JoinPowerToggle, onRelease(c.PowerToggle)},
	}
}

func transportButtons(c TransportControls) []button {
	return []button{
		{panel.JoinPlay, c.Play},
		{panel.JoinPause, c.Pause},
		{panel.JoinRewind, c.Rewind},
		{panel.JoinFastForward, c.FastForward},
		{panel.JoinChapterMinus, c.ChapterMinus},
		{panel.JoinChapterPlus, c.ChapterPlus},
		{panel.JoinStop, c.Stop},
		{panel.JoinRecord, c.Record},
	}
}
