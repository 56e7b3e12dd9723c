package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/logging"
	"github.com/navikt/roompanel/internal/models"
)

// RoomHandler serves the state of the configured rooms
type RoomHandler struct {
	rooms RoomFinder
	loop  dispatch.Caller
	log   *slog.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms RoomFinder, loop dispatch.Caller, log *slog.Logger) *RoomHandler {
	return &RoomHandler{
		rooms: rooms,
		loop:  loop,
		log:   log,
	}
}

// listRooms handles GET /api/rooms
func (h *RoomHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	statuses := []models.RoomStatus{}
	err := h.loop.Call(r.Context(), func() {
		for _, rm := range h.rooms.Rooms() {
			statuses = append(statuses, rm.Status())
		}
	})
	if err != nil {
		h.log.Error("reading room status", "error", err)
		http.Error(w, "Error retrieving rooms", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, statuses)
}

// getRoom handles GET /api/rooms/{room}
func (h *RoomHandler) getRoom(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("room")
	rm, ok := h.rooms.Room(key)
	if !ok {
		h.log.Debug("unknown room requested", "room", logging.Sanitize(key))
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	var status models.RoomStatus
	if err := h.loop.Call(r.Context(), func() { status = rm.Status() }); err != nil {
		h.log.Error("reading room status", "room", rm.Key(), "error", err)
		http.Error(w, "Error retrieving room", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
