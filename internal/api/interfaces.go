package api

import (
	"context"

	"github.com/navikt/roompanel/internal/models"
	"github.com/navikt/roompanel/internal/platform"
	"github.com/navikt/roompanel/internal/room"
)

// ScheduleServicer defines the schedule operations needed by the API handlers
type ScheduleServicer interface {
	ListMeetings(ctx context.Context, room string) ([]*models.Meeting, error)
	ReplaceMeetings(ctx context.Context, room string, meetings []*models.Meeting) error
	DeleteMeeting(ctx context.Context, room, id string) error
	ApplyEvent(ctx context.Context, ev *models.ScheduleEvent) error
}

// RoomFinder looks up the configured rooms. The rooms themselves may only be
// read on the dispatch context.
type RoomFinder interface {
	Rooms() []*room.Room
	Room(key string) (*room.Room, bool)
}

// InputPorts gives access to the control system's digital inputs
type InputPorts interface {
	DigitalInputs() []*platform.DigitalInput
	DigitalInput(n int) (*platform.DigitalInput, error)
}
