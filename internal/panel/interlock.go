package panel

// Interlock keeps at most one of a group of popups visible
type Interlock struct {
	surface Surface
	current Join
}

// NewInterlock creates an interlock with nothing showing
func NewInterlock(s Surface) *Interlock {
	return &Interlock{surface: s}
}

// Current returns the visible join, or 0
func (i *Interlock) Current() Join {
	return i.current
}

// IsShown reports whether j is the visible popup
func (i *Interlock) IsShown(j Join) bool {
	return i.current != 0 && i.current == j
}

// Show hides the current popup and shows j
func (i *Interlock) Show(j Join) {
	if i.current != 0 && i.current != j {
		i.surface.SetBool(i.current, false)
	}
	i.current = j
	i.surface.SetBool(j, true)
}

// ShowWithToggle hides j if it is showing, otherwise behaves like Show
func (i *Interlock) ShowWithToggle(j Join) {
	if i.IsShown(j) {
		i.Hide()
		return
	}
	i.Show(j)
}

// Hide hides the current popup
func (i *Interlock) Hide() {
	if i.current == 0 {
		return
	}
	i.surface.SetBool(i.current, false)
	i.current = 0
}
