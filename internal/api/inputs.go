package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/platform"
)

// InputState is the JSON view of one digital input
type InputState struct {
	Port   int  `json:"port"`
	Closed bool `json:"closed"`
}

type setInputRequest struct {
	Closed *bool `json:"closed"`
}

// InputHandler exposes the control system's digital inputs. Setting an
// input simulates a contact closure, e.g. from a fire alarm panel.
type InputHandler struct {
	inputs InputPorts
	loop   dispatch.Caller
	log    *slog.Logger
}

// NewInputHandler creates a new digital input handler
func NewInputHandler(inputs InputPorts, loop dispatch.Caller, log *slog.Logger) *InputHandler {
	return &InputHandler{
		inputs: inputs,
		loop:   loop,
		log:    log,
	}
}

// listInputs handles GET /api/io/inputs
func (h *InputHandler) listInputs(w http.ResponseWriter, r *http.Request) {
	states := []InputState{}
	err := h.loop.Call(r.Context(), func() {
		for _, in := range h.inputs.DigitalInputs() {
			states = append(states, InputState{Port: in.Port(), Closed: in.StateFeedback().Get()})
		}
	})
	if err != nil {
		h.log.Error("reading digital inputs", "error", err)
		http.Error(w, "Error reading inputs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, states)
}

// setInput handles PUT /api/io/inputs/{port}
func (h *InputHandler) setInput(w http.ResponseWriter, r *http.Request) {
	port, err := strconv.Atoi(r.PathValue("port"))
	if err != nil {
		http.Error(w, "Invalid port number", http.StatusBadRequest)
		return
	}
	in, err := h.inputs.DigitalInput(port)
	if errors.Is(err, platform.ErrNoSuchPort) {
		http.Error(w, "Input not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Error reading inputs", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	var req setInputRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil || req.Closed == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var state InputState
	err = h.loop.Call(r.Context(), func() {
		in.Set(*req.Closed)
		state = InputState{Port: in.Port(), Closed: in.StateFeedback().Get()}
	})
	if err != nil {
		h.log.Error("setting digital input", "port", port, "error", err)
		http.Error(w, "Error setting input", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
