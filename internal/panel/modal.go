package panel

// ModalOptions describes the content of a modal dialog
type ModalOptions struct {
	Title       string
	Icon        string
	Message     string
	Buttons     int // 0, 1 or 2
	Button1Text string
	Button2Text string
	ShowGauge   bool
	ShowCancel  bool
}

// ModalDialog drives the shared modal dialog subpage. Button numbers passed
// to the completion callback are 1 and 2; the cancel (X) button reports 0.
type ModalDialog struct {
	surface    Surface
	visible    bool
	onComplete func(button int)
}

// NewModalDialog creates a hidden dialog on s
func NewModalDialog(s Surface) *ModalDialog {
	return &ModalDialog{surface: s}
}

// IsVisible reports whether the dialog is showing
func (m *ModalDialog) IsVisible() bool {
	return m.visible
}

// Present shows the dialog. It returns false without changing anything if
// a dialog is already visible.
func (m *ModalDialog) Present(opts ModalOptions, onComplete func(button int)) bool {
	if m.visible {
		return false
	}
	s := m.surface
	m.onComplete = onComplete

	s.SetString(JoinModalTitle, opts.Title)
	s.SetString(JoinModalIcon, opts.Icon)
	s.SetString(JoinModalMessage, opts.Message)
	s.SetString(JoinModalButton1Text, opts.Button1Text)
	s.SetString(JoinModalButton2Text, opts.Button2Text)
	s.SetBool(JoinModalButton1Visible, opts.Buttons >= 1)
	s.SetBool(JoinModalButton2Visible, opts.Buttons >= 2)
	s.SetBool(JoinModalGaugeVisible, opts.ShowGauge)
	s.SetBool(JoinModalCancelVisible, opts.ShowCancel)

	s.SetPressAction(JoinModalButton1Press, func() { m.complete(1) })
	s.SetPressAction(JoinModalButton2Press, func() { m.complete(2) })
	s.SetPressAction(JoinModalCancelPress, func() { m.complete(0) })

	m.visible = true
	s.SetBool(JoinModalVisible, true)
	return true
}

// Hide closes the dialog without invoking the completion callback
func (m *ModalDialog) Hide() {
	if !m.visible {
		return
	}
	m.visible = false
	m.onComplete = nil
	m.surface.SetBool(JoinModalVisible, false)
	m.surface.ClearBoolAction(JoinModalButton1Press)
	m.surface.ClearBoolAction(JoinModalButton2Press)
	m.surface.ClearBoolAction(JoinModalCancelPress)
}

// Cancel closes a visible dialog as if the cancel button had been pressed
func (m *ModalDialog) Cancel() {
	if m.visible {
		m.complete(0)
	}
}

func (m *ModalDialog) complete(button int) {
	fn := m.onComplete
	m.Hide()
	if fn != nil {
		fn(button)
	}
}
