package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/navikt/roompanel/internal/logging"
	"github.com/navikt/roompanel/internal/models"
)

// maxBodyBytes limits request bodies accepted by the API
const maxBodyBytes = 1 << 20

// MeetingHandler handles HTTP requests for room schedules
type MeetingHandler struct {
	schedule ScheduleServicer
	rooms    RoomFinder
	log      *slog.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(schedule ScheduleServicer, rooms RoomFinder, log *slog.Logger) *MeetingHandler {
	return &MeetingHandler{
		schedule: schedule,
		rooms:    rooms,
		log:      log,
	}
}

// roomKey returns the {room} path value, or writes a 404 if the room is not configured
func (h *MeetingHandler) roomKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := r.PathValue("room")
	if _, ok := h.rooms.Room(key); !ok {
		h.log.Debug("unknown room requested", "room", logging.Sanitize(key))
		http.Error(w, "Room not found", http.StatusNotFound)
		return "", false
	}
	return key, true
}

// listMeetings handles GET /api/rooms/{room}/meetings
func (h *MeetingHandler) listMeetings(w http.ResponseWriter, r *http.Request) {
	key, ok := h.roomKey(w, r)
	if !ok {
		return
	}

	meetings, err := h.schedule.ListMeetings(r.Context(), key)
	if err != nil {
		h.log.Error("listing meetings", "room", key, "error", err)
		http.Error(w, "Error retrieving meetings", http.StatusInternalServerError)
		return
	}
	if meetings == nil {
		meetings = []*models.Meeting{}
	}

	writeJSON(w, http.StatusOK, meetings)
}

// replaceMeetings handles PUT /api/rooms/{room}/meetings
func (h *MeetingHandler) replaceMeetings(w http.ResponseWriter, r *http.Request) {
	key, ok := h.roomKey(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()

	var meetings []*models.Meeting
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&meetings); err != nil {
		h.log.Debug("decoding meetings", "room", key, "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	for _, m := range meetings {
		if m == nil {
			http.Error(w, "Empty meeting in request", http.StatusBadRequest)
			return
		}
		if err := m.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := h.schedule.ReplaceMeetings(r.Context(), key, meetings); err != nil {
		h.log.Error("replacing meetings", "room", key, "error", err)
		http.Error(w, "Error saving meetings", http.StatusInternalServerError)
		return
	}

	h.log.Info("schedule replaced", "room", key, "meetings", len(meetings))
	w.WriteHeader(http.StatusNoContent)
}

// deleteMeeting handles DELETE /api/rooms/{room}/meetings/{id}
func (h *MeetingHandler) deleteMeeting(w http.ResponseWriter, r *http.Request) {
	key, ok := h.roomKey(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	err := h.schedule.DeleteMeeting(r.Context(), key, id)
	switch {
	case errors.Is(err, models.ErrMeetingNotFound):
		http.Error(w, "Meeting not found", http.StatusNotFound)
		return
	case err != nil:
		h.log.Error("deleting meeting", "room", key, "meeting", logging.Sanitize(id), "error", err)
		http.Error(w, "Error deleting meeting", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Meeting deleted successfully",
	})
}
