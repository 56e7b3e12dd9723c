// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/navikt/roompanel/internal/models"
)

// Repository implements the repository interface with in-memory storage
type Repository struct {
	rooms map[string]map[string]models.Meeting // room key -> meeting id -> meeting
	mu    sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		rooms: make(map[string]map[string]models.Meeting),
	}
}

// SaveMeeting adds or replaces a meeting in the room's schedule
func (r *Repository) SaveMeeting(ctx context.Context, room string, meeting *models.Meeting) error {
	if err := meeting.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	meetings, ok := r.rooms[room]
	if !ok {
		meetings = make(map[string]models.Meeting)
		r.rooms[room] = meetings
	}
	// Store a copy so later changes by the caller do not leak in
	meetings[meeting.ID] = *meeting
	return nil
}

// GetMeeting retrieves a meeting by ID
func (r *Repository) GetMeeting(ctx context.Context, room, id string) (*models.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.rooms[room][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s in room %s", models.ErrMeetingNotFound, id, room)
	}
	return &m, nil
}

// ListMeetings returns the room's meetings in schedule order
func (r *Repository) ListMeetings(ctx context.Context, room string) ([]*models.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meetings := make([]*models.Meeting, 0, len(r.rooms[room]))
	for _, m := range r.rooms[room] {
		m := m
		meetings = append(meetings, &m)
	}
	models.SortMeetings(meetings)
	return meetings, nil
}

// DeleteMeeting removes a meeting by ID
func (r *Repository) DeleteMeeting(ctx context.Context, room, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room][id]; !ok {
		return fmt.Errorf("%w: %s in room %s", models.ErrMeetingNotFound, id, room)
	}
	delete(r.rooms[room], id)
	return nil
}

// ReplaceMeetings replaces the room's schedule. Nothing changes if any meeting is invalid.
func (r *Repository) ReplaceMeetings(ctx context.Context, room string, meetings []*models.Meeting) error {
	next := make(map[string]models.Meeting, len(meetings))
	for _, m := range meetings {
		if err := m.Validate(); err != nil {
			return err
		}
		next[m.ID] = *m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room] = next
	return nil
}

// Close is a no-op for the in-memory repository
func (r *Repository) Close() error {
	return nil
}
