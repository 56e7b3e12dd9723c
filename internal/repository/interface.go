// Package repository defines interfaces for data storage
package repository

import (
	"context"

	"github.com/navikt/roompanel/internal/models"
)

// ErrNotFound is returned when a requested meeting is not in the room's schedule
var ErrNotFound = models.ErrMeetingNotFound

// Repository stores the meeting schedule of each room
type Repository interface {
	// Meeting operations, scoped by room key
	SaveMeeting(ctx context.Context, room string, meeting *models.Meeting) error
	GetMeeting(ctx context.Context, room, id string) (*models.Meeting, error)
	// ListMeetings returns the room's meetings sorted by start time, then id
	ListMeetings(ctx context.Context, room string) ([]*models.Meeting, error)
	DeleteMeeting(ctx context.Context, room, id string) error
	// ReplaceMeetings swaps the whole schedule of a room in one operation
	ReplaceMeetings(ctx context.Context, room string, meetings []*models.Meeting) error

	Close() error
}
