package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/navikt/roompanel/internal/clock"
	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/models"
	"github.com/navikt/roompanel/internal/repository"
	"github.com/navikt/roompanel/internal/repository/memory"
	"github.com/navikt/roompanel/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

// MockUpdateCallback is a mock for testing callbacks
type MockUpdateCallback struct {
	mock.Mock
}

func (m *MockUpdateCallback) OnUpdate(room string, meetings []*models.Meeting) {
	m.Called(room, meetings)
}

func newService(repo repository.Repository) *service.ScheduleService {
	return service.NewScheduleService(repo, clock.NewFake(now), dispatch.Inline{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func meetingIDs(meetings []*models.Meeting) []string {
	ids := make([]string, 0, len(meetings))
	for _, m := range meetings {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestScheduleService_ReplaceMeetings(t *testing.T) {
	svc := newService(memory.NewRepository())
	ctx := context.Background()

	sched := svc.Schedule("huddle")
	fired := 0
	sched.MeetingsListHasChanged().Subscribe(func() { fired++ })

	err := svc.ReplaceMeetings(ctx, "huddle", []*models.Meeting{
		{ID: "later", StartTime: now.Add(2 * time.Hour), EndTime: now.Add(3 * time.Hour)},
		{ID: "past", StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour)},
		{ID: "running", StartTime: now.Add(-10 * time.Minute), EndTime: now.Add(20 * time.Minute)},
		{ID: "open", StartTime: now.Add(time.Hour)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fired)
	assert.Equal(t, "huddle", sched.Room())
	assert.Equal(t, []string{"running", "open", "later"}, meetingIDs(sched.Meetings()), "ended meetings are not published")

	stored, err := svc.ListMeetings(ctx, "huddle")
	require.NoError(t, err)
	assert.Len(t, stored, 4, "storage keeps ended meetings")

	assert.Same(t, sched, svc.Schedule("huddle"))
	assert.Empty(t, svc.Schedule("boardroom").Meetings())
	assert.Equal(t, []string{"boardroom", "huddle"}, svc.Rooms())
}

func TestScheduleService_UpdateCallbacks(t *testing.T) {
	svc := newService(memory.NewRepository())
	ctx := context.Background()

	mockCallback := new(MockUpdateCallback)
	mockCallback.On("OnUpdate", "huddle", mock.MatchedBy(func(m []*models.Meeting) bool {
		return len(m) == 1 && m[0].ID == "standup"
	})).Once()
	svc.RegisterUpdateCallback(mockCallback.OnUpdate)

	err := svc.SaveMeeting(ctx, "huddle", &models.Meeting{ID: "standup", StartTime: now.Add(time.Hour)})
	require.NoError(t, err)

	mockCallback.AssertExpectations(t)
}

func TestScheduleService_ApplyEvent(t *testing.T) {
	svc := newService(memory.NewRepository())
	ctx := context.Background()
	sched := svc.Schedule("huddle")

	err := svc.ApplyEvent(ctx, &models.ScheduleEvent{
		Event: models.EventScheduleReplaced,
		Payload: models.SchedulePayload{Room: "huddle", Meetings: []*models.Meeting{
			{ID: "a", StartTime: now.Add(time.Hour)},
			{ID: "b", StartTime: now.Add(2 * time.Hour)},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, meetingIDs(sched.Meetings()))

	err = svc.ApplyEvent(ctx, &models.ScheduleEvent{
		Event:   models.EventMeetingUpserted,
		Payload: models.SchedulePayload{Room: "huddle", Meetings: []*models.Meeting{{ID: "c", StartTime: now.Add(30 * time.Minute)}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, meetingIDs(sched.Meetings()))

	err = svc.ApplyEvent(ctx, &models.ScheduleEvent{
		Event:   models.EventMeetingDeleted,
		Payload: models.SchedulePayload{Room: "huddle", MeetingID: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, meetingIDs(sched.Meetings()))

	err = svc.ApplyEvent(ctx, &models.ScheduleEvent{
		Event:   models.EventMeetingDeleted,
		Payload: models.SchedulePayload{Room: "huddle", MeetingID: "a"},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = svc.ApplyEvent(ctx, &models.ScheduleEvent{Event: "meeting.exploded", Payload: models.SchedulePayload{Room: "huddle"}})
	assert.Error(t, err)
}

type failingRepo struct {
	repository.Repository
}

func (failingRepo) ListMeetings(context.Context, string) ([]*models.Meeting, error) {
	return nil, errors.New("connection refused")
}

func TestScheduleService_RefreshAllReportsFailures(t *testing.T) {
	svc := newService(failingRepo{Repository: memory.NewRepository()})
	svc.Schedule("huddle")
	svc.Schedule("boardroom")

	err := svc.RefreshAll(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

// queuePoster holds posted work until run is called
type queuePoster struct {
	queued []func()
}

func (q *queuePoster) Post(fn func()) { q.queued = append(q.queued, fn) }

func TestScheduleService_RefreshDropsStaleSnapshot(t *testing.T) {
	repo := memory.NewRepository()
	post := &queuePoster{}
	svc := service.NewScheduleService(repo, clock.NewFake(now), post, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	sched := svc.Schedule("huddle")
	fired := 0
	sched.MeetingsListHasChanged().Subscribe(func() { fired++ })

	require.NoError(t, svc.ReplaceMeetings(ctx, "huddle", []*models.Meeting{
		{ID: "old", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
	}))
	require.NoError(t, svc.ReplaceMeetings(ctx, "huddle", []*models.Meeting{
		{ID: "new", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
	}))
	require.Len(t, post.queued, 2)

	// Deliver the newer snapshot first
	post.queued[1]()
	post.queued[0]()

	assert.Equal(t, []string{"new"}, meetingIDs(sched.Meetings()))
	assert.Equal(t, 1, fired)
}
