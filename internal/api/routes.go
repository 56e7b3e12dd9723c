package api

import (
	"net/http"

	"github.com/navikt/roompanel/internal/config"
	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/logging"
)

// Dependencies are the services the API handlers work on
type Dependencies struct {
	Schedule      ScheduleServicer
	Rooms         RoomFinder
	Inputs        InputPorts
	Loop          dispatch.Caller
	WebhookSecret string
	Auth          config.AuthConfig
}

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	log := logging.For("api")
	auth := NewAuthMiddleware(deps.Auth, logging.For("auth"))

	// Health check endpoints for Kubernetes
	mux.HandleFunc("GET /health/live", HealthLiveHandler)
	mux.HandleFunc("GET /health/ready", HealthReadyHandler(deps.Loop))

	// Calendar webhook endpoint, authenticated by its signature
	mux.Handle("/webhook/schedule", NewWebhookHandler(deps.Schedule, deps.Rooms, deps.WebhookSecret, log))

	rooms := NewRoomHandler(deps.Rooms, deps.Loop, log)
	mux.HandleFunc("GET /api/rooms", rooms.listRooms)
	mux.HandleFunc("GET /api/rooms/{room}", rooms.getRoom)

	meetings := NewMeetingHandler(deps.Schedule, deps.Rooms, log)
	mux.HandleFunc("GET /api/rooms/{room}/meetings", meetings.listMeetings)
	mux.HandleFunc("PUT /api/rooms/{room}/meetings", auth.RequireAuth(meetings.replaceMeetings))
	mux.HandleFunc("DELETE /api/rooms/{room}/meetings/{id}", auth.RequireAuth(meetings.deleteMeeting))

	inputs := NewInputHandler(deps.Inputs, deps.Loop, log)
	mux.HandleFunc("GET /api/io/inputs", inputs.listInputs)
	mux.HandleFunc("PUT /api/io/inputs/{port}", auth.RequireAuth(inputs.setInput))

	return mux
}
