package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/navikt/roompanel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingValidate(t *testing.T) {
	start := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

	m := models.Meeting{ID: "m1", StartTime: start, EndTime: start.Add(time.Hour)}
	assert.NoError(t, m.Validate())

	m.ID = ""
	assert.Error(t, m.Validate())

	m = models.Meeting{ID: "m1", StartTime: start, EndTime: start.Add(-time.Minute)}
	assert.Error(t, m.Validate())
}

func TestMeetingStartsWithin(t *testing.T) {
	now := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	m := models.Meeting{ID: "m1", StartTime: now.Add(5 * time.Minute), EndTime: now.Add(time.Hour)}

	assert.True(t, m.StartsWithin(now, 10*time.Minute))
	assert.False(t, m.StartsWithin(now, time.Minute))

	// Started but not ended
	assert.True(t, m.StartsWithin(now.Add(30*time.Minute), 0))
	// Ended
	assert.False(t, m.StartsWithin(now.Add(2*time.Hour), 10*time.Minute))
}

func TestSortMeetings(t *testing.T) {
	start := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	meetings := []*models.Meeting{
		{ID: "c", StartTime: start.Add(time.Hour)},
		{ID: "b", StartTime: start},
		{ID: "a", StartTime: start},
	}

	models.SortMeetings(meetings)

	assert.Equal(t, "a", meetings[0].ID)
	assert.Equal(t, "b", meetings[1].ID)
	assert.Equal(t, "c", meetings[2].ID)
}

func TestShutdownType(t *testing.T) {
	types := []models.ShutdownType{
		models.ShutdownNone,
		models.ShutdownManual,
		models.ShutdownVacancy,
		models.ShutdownEmergency,
	}
	expected := []string{"none", "manual", "vacancy", "emergency"}

	for i, st := range types {
		assert.Equal(t, expected[i], st.String())
		parsed, err := models.ParseShutdownType(expected[i])
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}

	_, err := models.ParseShutdownType("reboot")
	assert.Error(t, err)

	b, err := json.Marshal(models.RoomStatus{Key: "r1", ShutdownType: models.ShutdownVacancy})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"shutdown_type":"vacancy"`)

	var status models.RoomStatus
	require.NoError(t, json.Unmarshal(b, &status))
	assert.Equal(t, models.ShutdownVacancy, status.ShutdownType)
	assert.Error(t, json.Unmarshal([]byte(`{"shutdown_type":"reboot"}`), &status))
}

func TestSourceListSorted(t *testing.T) {
	list := models.SourceList{
		"laptop":  {PreferredName: "Laptop", Order: 2},
		"appletv": {PreferredName: "Apple TV", Order: 1},
		"pc":      {PreferredName: "PC", Order: 2},
	}

	items := list.Sorted()

	require.Len(t, items, 3)
	assert.Equal(t, "appletv", items[0].Key)
	assert.Equal(t, "laptop", items[1].Key)
	assert.Equal(t, "pc", items[2].Key)
	assert.Equal(t, "Laptop", items[1].PreferredName)
}

func TestScheduleEventValidate(t *testing.T) {
	start := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   models.ScheduleEvent
		wantErr bool
	}{
		{
			name: "replace",
			event: models.ScheduleEvent{
				Event:   models.EventScheduleReplaced,
				Payload: models.SchedulePayload{Room: "huddle", Meetings: []*models.Meeting{{ID: "m1", StartTime: start}}},
			},
		},
		{
			name:  "replace with empty schedule",
			event: models.ScheduleEvent{Event: models.EventScheduleReplaced, Payload: models.SchedulePayload{Room: "huddle"}},
		},
		{
			name:    "missing room",
			event:   models.ScheduleEvent{Event: models.EventScheduleReplaced},
			wantErr: true,
		},
		{
			name:    "upsert without meeting",
			event:   models.ScheduleEvent{Event: models.EventMeetingUpserted, Payload: models.SchedulePayload{Room: "huddle"}},
			wantErr: true,
		},
		{
			name:    "delete without id",
			event:   models.ScheduleEvent{Event: models.EventMeetingDeleted, Payload: models.SchedulePayload{Room: "huddle"}},
			wantErr: true,
		},
		{
			name:  "delete",
			event: models.ScheduleEvent{Event: models.EventMeetingDeleted, Payload: models.SchedulePayload{Room: "huddle", MeetingID: "m1"}},
		},
		{
			name:    "unknown event",
			event:   models.ScheduleEvent{Event: "meeting.started", Payload: models.SchedulePayload{Room: "huddle"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
