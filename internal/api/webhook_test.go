package api_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/navikt/roompanel/internal/api"
	"github.com/navikt/roompanel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const secret = "test_secret_token"

const replacedEvent = `{"event":"schedule.replaced","event_ts":1741078800000,"payload":{"room":"huddle","meetings":[` +
	`{"id":"m1","title":"Standup","start_time":"2025-03-04T10:00:00Z","end_time":"2025-03-04T10:15:00Z","joinable":true},` +
	`{"id":"m2","title":"Review","start_time":"2025-03-04T13:00:00Z","end_time":"2025-03-04T14:00:00Z"}]}}`

func TestWebhookSignatureValidation(t *testing.T) {
	tests := []struct {
		name      string
		signature func(body string) string
		expected  int
	}{
		{
			name:      "Valid signature",
			signature: func(body string) string { return api.Sign(secret, []byte(body)) },
			expected:  http.StatusOK,
		},
		{
			name:      "Missing signature",
			signature: func(string) string { return "" },
			expected:  http.StatusUnauthorized,
		},
		{
			name: "Missing prefix",
			signature: func(body string) string {
				return strings.TrimPrefix(api.Sign(secret, []byte(body)), "sha256=")
			},
			expected: http.StatusUnauthorized,
		},
		{
			name:      "Wrong secret",
			signature: func(body string) string { return api.Sign("other", []byte(body)) },
			expected:  http.StatusUnauthorized,
		},
		{
			name:      "Signature of a different body",
			signature: func(string) string { return api.Sign(secret, []byte(`{}`)) },
			expected:  http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, secret, nil)

			rr := f.do(http.MethodPost, "/webhook/schedule", replacedEvent, api.SignatureHeader, tt.signature(replacedEvent))
			assert.Equal(t, tt.expected, rr.Code)

			stored, err := f.service.ListMeetings(context.Background(), "huddle")
			require.NoError(t, err)
			if tt.expected == http.StatusOK {
				assert.Len(t, stored, 2)
			} else {
				assert.Empty(t, stored, "rejected events must not change the schedule")
			}
		})
	}
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"meeting.deleted"}`)
	header := api.Sign(secret, body)

	assert.True(t, strings.HasPrefix(header, "sha256="))
	assert.True(t, api.VerifySignature(secret, body, header))
	assert.False(t, api.VerifySignature(secret, body, strings.ToUpper(header)))
	assert.False(t, api.VerifySignature(secret, append(body, ' '), header))
}

func TestWebhookHandler(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		body     string
		expected int
		check    func(t *testing.T, f *fixture)
	}{
		{
			name:     "Schedule replaced",
			method:   http.MethodPost,
			body:     replacedEvent,
			expected: http.StatusOK,
			check: func(t *testing.T, f *fixture) {
				meetings := f.service.Schedule("huddle").Meetings()
				require.Len(t, meetings, 2)
				assert.Equal(t, "Standup", meetings[0].Title)
				assert.True(t, meetings[0].Joinable)
			},
		},
		{
			name:     "Meeting upserted",
			method:   http.MethodPost,
			body:     `{"event":"meeting.upserted","payload":{"room":"board","meetings":[{"id":"m9","title":"Board","start_time":"2025-03-04T12:00:00Z"}]}}`,
			expected: http.StatusOK,
			check: func(t *testing.T, f *fixture) {
				m, err := f.service.GetMeeting(context.Background(), "board", "m9")
				require.NoError(t, err)
				assert.Equal(t, "Board", m.Title)
				assert.True(t, m.StartTime.Equal(time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)))
			},
		},
		{
			name:     "Unknown meeting deleted",
			method:   http.MethodPost,
			body:     `{"event":"meeting.deleted","payload":{"room":"huddle","meeting_id":"gone"}}`,
			expected: http.StatusOK,
		},
		{
			name:     "Unsupported event",
			method:   http.MethodPost,
			body:     `{"event":"room.renamed","payload":{"room":"huddle"}}`,
			expected: http.StatusBadRequest,
		},
		{
			name:     "Missing room",
			method:   http.MethodPost,
			body:     `{"event":"schedule.replaced","payload":{}}`,
			expected: http.StatusBadRequest,
		},
		{
			name:     "Unknown room",
			method:   http.MethodPost,
			body:     `{"event":"schedule.replaced","payload":{"room":"attic"}}`,
			expected: http.StatusNotFound,
		},
		{
			name:     "Invalid JSON",
			method:   http.MethodPost,
			body:     `{"event":`,
			expected: http.StatusBadRequest,
		},
		{
			name:     "Wrong method",
			method:   http.MethodGet,
			expected: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", nil)

			rr := f.do(tt.method, "/webhook/schedule", tt.body)
			assert.Equal(t, tt.expected, rr.Code)
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestWebhookStorageFailure(t *testing.T) {
	schedule := new(MockSchedule)
	schedule.On("ApplyEvent", mock.Anything, mock.MatchedBy(func(ev *models.ScheduleEvent) bool {
		return ev.Event == models.EventScheduleReplaced && ev.Payload.Room == "huddle"
	})).Return(errors.New("redis down"))
	f := newFixture(t, secret, schedule)

	rr := f.do(http.MethodPost, "/webhook/schedule", replacedEvent, api.SignatureHeader, api.Sign(secret, []byte(replacedEvent)))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	schedule.AssertExpectations(t)
}
