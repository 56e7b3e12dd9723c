// Package pagemgr shows and hides the control page of the current source device
package pagemgr

import (
	"github.com/navikt/roompanel/internal/device"
	"github.com/navikt/roompanel/internal/panel"
)

// PageManager shows the control page of one device
type PageManager interface {
	Show()
	Hide()
}

// SetTopBox shows the three-panel set-top box page with the sections the box has
type SetTopBox struct {
	surface panel.Surface
	box     device.SetTopBoxControls
}

func (m *SetTopBox) Show() {
	m.surface.SetBool(panel.JoinSetTopBoxDvrVisible, m.box.HasDvr())
	m.surface.SetBool(panel.JoinSetTopBoxDpadVisible, m.box.HasDpad())
	m.surface.SetBool(panel.JoinSetTopBoxNumericVisible, m.box.HasNumeric())
	m.surface.SetBool(panel.JoinSetTopBoxPresetsVisible, m.box.HasPresets())
	m.surface.SetBool(panel.JoinSetTopBoxPageVisible, true)
}

func (m *SetTopBox) Hide() {
	m.surface.SetBool(panel.JoinSetTopBoxPageVisible, false)
	m.surface.SetBool(panel.JoinSetTopBoxDvrVisible, false)
	m.surface.SetBool(panel.JoinSetTopBoxDpadVisible, false)
	m.surface.SetBool(panel.JoinSetTopBoxNumericVisible, false)
	m.surface.SetBool(panel.JoinSetTopBoxPresetsVisible, false)
}

// DiscPlayer shows the disc player page
type DiscPlayer struct {
	surface panel.Surface
}

func (m *DiscPlayer) Show() { m.surface.SetBool(panel.JoinDiscPlayerPageVisible, true) }
func (m *DiscPlayer) Hide() { m.surface.SetBool(panel.JoinDiscPlayerPageVisible, false) }

// Default shows the generic page selected by the device's UI type
type Default struct {
	surface panel.Surface
	join    panel.Join
}

func (m *Default) Show() { m.surface.SetBool(m.join, true) }
func (m *Default) Hide() { m.surface.SetBool(m.join, false) }

// Registry caches one page manager per device. The variant is chosen from
// the device's capabilities when the manager is first created.
type Registry struct {
	surface  panel.Surface
	caps     func(device.Device) device.Capabilities
	managers map[string]PageManager
}

// NewRegistry creates an empty registry. caps resolves capability sets,
// nil means device.Probe.
func NewRegistry(s panel.Surface, caps func(device.Device) device.Capabilities) *Registry {
	if caps == nil {
		caps = device.Probe
	}
	return &Registry{
		surface:  s,
		caps:     caps,
		managers: make(map[string]PageManager),
	}
}

// For returns the page manager of d, creating it on first use. Devices
// without UI display info have no page and get nil.
func (r *Registry) For(d device.Device) PageManager {
	if d == nil {
		return nil
	}
	if pm, ok := r.managers[d.Key()]; ok {
		return pm
	}

	c := r.caps(d)
	if c.UIInfo == nil {
		return nil
	}

	var pm PageManager
	switch {
	case c.SetTopBox != nil:
		pm = &SetTopBox{surface: r.surface, box: c.SetTopBox}
	case c.DiscPlayer != nil:
		pm = &DiscPlayer{surface: r.surface}
	default:
		pm = &Default{surface: r.surface, join: panel.JoinDefaultPageBase + panel.Join(c.UIInfo.DisplayUIType())}
	}
	r.managers[d.Key()] = pm
	return pm
}

// Len returns the number of cached managers
func (r *Registry) Len() int {
	return len(r.managers)
}

// Reset drops every cached manager, for use when the room changes
func (r *Registry) Reset() {
	r.managers = make(map[string]PageManager)
}
