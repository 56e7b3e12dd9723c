// Package platform models the control system the panels run on. Only the
// digital input ports are modelled; their state is set through the API.
package platform

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/navikt/roompanel/internal/feedback"
)

// ErrNoSuchPort is returned for digital input numbers outside 1..NumberOfDigitalInputPorts
var ErrNoSuchPort = errors.New("no such digital input port")

// DigitalInput is one contact input. State is true while the contact is closed.
type DigitalInput struct {
	port  int
	state *feedback.Bool
	log   *slog.Logger
}

// Port returns the 1-based port number
func (d *DigitalInput) Port() int { return d.port }

// StateFeedback reports the contact state
func (d *DigitalInput) StateFeedback() *feedback.Bool { return d.state }

// Set changes the contact state. Must be called on the dispatch context.
func (d *DigitalInput) Set(closed bool) {
	if d.state.Set(closed) {
		d.log.Info("digital input changed", "port", d.port, "closed", closed)
	}
}

// ControlSystem holds the digital inputs of the processor
type ControlSystem struct {
	inputs []*DigitalInput
}

// New creates a control system with n open digital inputs
func New(n int, log *slog.Logger) *ControlSystem {
	cs := &ControlSystem{}
	for port := 1; port <= n; port++ {
		cs.inputs = append(cs.inputs, &DigitalInput{
			port:  port,
			state: feedback.NewValue(false),
			log:   log,
		})
	}
	return cs
}

// NumberOfDigitalInputPorts returns the number of digital inputs
func (cs *ControlSystem) NumberOfDigitalInputPorts() int {
	return len(cs.inputs)
}

// DigitalInput returns the input with the 1-based port number n
func (cs *ControlSystem) DigitalInput(n int) (*DigitalInput, error) {
	if n < 1 || n > len(cs.inputs) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrNoSuchPort, n, len(cs.inputs))
	}
	return cs.inputs[n-1], nil
}

// DigitalInputs returns every input in port order
func (cs *ControlSystem) DigitalInputs() []*DigitalInput {
	out := make([]*DigitalInput, len(cs.inputs))
	copy(out, cs.inputs)
	return out
}
