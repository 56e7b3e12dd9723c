package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/navikt/roompanel/internal/clock"
	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/feedback"
	"github.com/navikt/roompanel/internal/logging"
	"github.com/navikt/roompanel/internal/models"
	"github.com/navikt/roompanel/internal/repository"
)

// ScheduleUpdateCallback is called on the dispatch context after a room's
// schedule was published
type ScheduleUpdateCallback func(room string, meetings []*models.Meeting)

// Schedule is the published meeting list of one room. It is read and
// changed on the dispatch context only.
type Schedule struct {
	room     string
	meetings []*models.Meeting
	changed  feedback.Event

	// requested is guarded by the service mutex. applied is the sequence
	// of the published meetings.
	requested uint64
	applied   uint64
}

// Room returns the room key
func (s *Schedule) Room() string { return s.room }

// Meetings returns the meetings that have not ended, in schedule order
func (s *Schedule) Meetings() []*models.Meeting { return s.meetings }

// MeetingsListHasChanged fires after every publish
func (s *Schedule) MeetingsListHasChanged() *feedback.Event { return &s.changed }

// ScheduleService provides the meeting schedules of the rooms
type ScheduleService struct {
	repo  repository.Repository
	clock clock.Clock
	post  dispatch.Poster
	log   *slog.Logger

	mu              sync.Mutex
	schedules       map[string]*Schedule
	updateCallbacks []ScheduleUpdateCallback
}

// NewScheduleService creates a new ScheduleService with the given repository
func NewScheduleService(repo repository.Repository, c clock.Clock, post dispatch.Poster, log *slog.Logger) *ScheduleService {
	return &ScheduleService{
		repo:      repo,
		clock:     c,
		post:      post,
		log:       log,
		schedules: make(map[string]*Schedule),
	}
}

// Schedule returns the published schedule of room, creating an empty one
// on first use
func (s *ScheduleService) Schedule(room string) *Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, ok := s.schedules[room]
	if !ok {
		sched = &Schedule{room: room}
		s.schedules[room] = sched
	}
	return sched
}

// Rooms returns the keys of every room with a schedule
func (s *ScheduleService) Rooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := make([]string, 0, len(s.schedules))
	for room := range s.schedules {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return rooms
}

// RegisterUpdateCallback registers a callback function to be called when a schedule changes
func (s *ScheduleService) RegisterUpdateCallback(callback ScheduleUpdateCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// ListMeetings returns every stored meeting of the room, ended ones included
func (s *ScheduleService) ListMeetings(ctx context.Context, room string) ([]*models.Meeting, error) {
	return s.repo.ListMeetings(ctx, room)
}

// GetMeeting returns one stored meeting
func (s *ScheduleService) GetMeeting(ctx context.Context, room, id string) (*models.Meeting, error) {
	return s.repo.GetMeeting(ctx, room, id)
}

// ReplaceMeetings stores a new schedule for the room and publishes it
func (s *ScheduleService) ReplaceMeetings(ctx context.Context, room string, meetings []*models.Meeting) error {
	if err := s.repo.ReplaceMeetings(ctx, room, meetings); err != nil {
		return fmt.Errorf("failed to replace schedule of %s: %w", room, err)
	}
	return s.Refresh(ctx, room)
}

// SaveMeeting adds or updates one meeting and publishes the schedule
func (s *ScheduleService) SaveMeeting(ctx context.Context, room string, meeting *models.Meeting) error {
	if err := s.repo.SaveMeeting(ctx, room, meeting); err != nil {
		return fmt.Errorf("failed to save meeting: %w", err)
	}
	return s.Refresh(ctx, room)
}

// DeleteMeeting removes one meeting and publishes the schedule
func (s *ScheduleService) DeleteMeeting(ctx context.Context, room, id string) error {
	if err := s.repo.DeleteMeeting(ctx, room, id); err != nil {
		return err
	}
	return s.Refresh(ctx, room)
}

// ApplyEvent applies a calendar webhook event
func (s *ScheduleService) ApplyEvent(ctx context.Context, ev *models.ScheduleEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	room := ev.Payload.Room

	switch ev.Event {
	case models.EventScheduleReplaced:
		return s.ReplaceMeetings(ctx, room, ev.Payload.Meetings)
	case models.EventMeetingUpserted:
		return s.SaveMeeting(ctx, room, ev.Payload.Meetings[0])
	case models.EventMeetingDeleted:
		return s.DeleteMeeting(ctx, room, ev.Payload.MeetingID)
	}
	return nil
}

// Refresh reads the room's schedule from storage and publishes it. A
// refresh that lands after a later one for the same room is dropped.
func (s *ScheduleService) Refresh(ctx context.Context, room string) error {
	sched := s.Schedule(room)
	s.mu.Lock()
	sched.requested++
	seq := sched.requested
	s.mu.Unlock()

	meetings, err := s.repo.ListMeetings(ctx, room)
	if err != nil {
		return fmt.Errorf("failed to load schedule of %s: %w", room, err)
	}

	now := s.clock.Now()
	upcoming := make([]*models.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m.EndTime.IsZero() || m.EndTime.After(now) {
			upcoming = append(upcoming, m)
		}
	}

	s.mu.Lock()
	callbacks := append([]ScheduleUpdateCallback(nil), s.updateCallbacks...)
	s.mu.Unlock()

	s.post.Post(func() {
		if seq < sched.applied {
			s.log.Debug("stale schedule dropped", "room", logging.Sanitize(room), "seq", seq)
			return
		}
		sched.applied = seq
		sched.meetings = upcoming
		sched.changed.Fire()
		for _, callback := range callbacks {
			callback(room, upcoming)
		}
	})
	s.log.Debug("schedule published", "room", logging.Sanitize(room), "meetings", len(upcoming))
	return nil
}

// RefreshAll refreshes every known schedule. It keeps going after a failure
// and returns the first error.
func (s *ScheduleService) RefreshAll(ctx context.Context) error {
	var first error
	for _, room := range s.Rooms() {
		if err := s.Refresh(ctx, room); err != nil {
			s.log.Error("schedule refresh failed", "room", room, "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
