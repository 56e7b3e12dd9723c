package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/navikt/roompanel/internal/api"
	"github.com/navikt/roompanel/internal/clock"
	"github.com/navikt/roompanel/internal/config"
	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/models"
	"github.com/navikt/roompanel/internal/platform"
	"github.com/navikt/roompanel/internal/repository/memory"
	"github.com/navikt/roompanel/internal/room"
	"github.com/navikt/roompanel/internal/service"
	"github.com/stretchr/testify/mock"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var now = time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

// roomSet is a RoomFinder over a fixed set of rooms
type roomSet map[string]*room.Room

func (s roomSet) Rooms() []*room.Room {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rooms := make([]*room.Room, 0, len(keys))
	for _, k := range keys {
		rooms = append(rooms, s[k])
	}
	return rooms
}

func (s roomSet) Room(key string) (*room.Room, bool) {
	r, ok := s[key]
	return r, ok
}

// MockSchedule is a mock implementation of api.ScheduleServicer
type MockSchedule struct {
	mock.Mock
}

func (m *MockSchedule) ListMeetings(ctx context.Context, room string) ([]*models.Meeting, error) {
	args := m.Called(ctx, room)
	meetings, _ := args.Get(0).([]*models.Meeting)
	return meetings, args.Error(1)
}

func (m *MockSchedule) ReplaceMeetings(ctx context.Context, room string, meetings []*models.Meeting) error {
	return m.Called(ctx, room, meetings).Error(0)
}

func (m *MockSchedule) DeleteMeeting(ctx context.Context, room, id string) error {
	return m.Called(ctx, room, id).Error(0)
}

func (m *MockSchedule) ApplyEvent(ctx context.Context, ev *models.ScheduleEvent) error {
	return m.Called(ctx, ev).Error(0)
}

const (
	adminToken = "admin-token"
	adminIdent = "A123456"
)

// introspection stands in for the token introspection endpoint. tokens maps
// active tokens to the identity claim they carry.
type introspection struct {
	*httptest.Server
	tokens map[string]string
	fail   bool
}

func newIntrospection(t *testing.T) *introspection {
	t.Helper()
	i := &introspection{tokens: map[string]string{adminToken: adminIdent}}
	i.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.fail {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		var req api.TokenIntrospectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		resp := api.TokenIntrospectionResponse{}
		if ident, ok := i.tokens[req.Token]; ok {
			resp.Active = true
			resp.Claims = map[string]any{"NAVident": ident}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(i.Close)
	return i
}

type fixture struct {
	handler  http.Handler
	auth     *introspection
	rooms    roomSet
	service  *service.ScheduleService
	platform *platform.ControlSystem
	codec    *room.SimulatedCodec
}

// newFixture builds the API over two rooms. Requests carry the admin token
// unless they set their own Authorization header. A nil schedule uses a real
// schedule service backed by the memory repository.
func newFixture(t *testing.T, secret string, schedule api.ScheduleServicer) *fixture {
	t.Helper()
	clk := clock.NewFake(now)
	sources := models.SourceList{
		"laptop": {PreferredName: "Laptop", Icon: "Laptop", Order: 1, IncludeInSourceList: true},
	}
	codec := room.NewSimulatedCodec("codec", "Video Codec", nil, discard)

	f := &fixture{
		rooms: roomSet{
			"huddle": room.New(room.Config{Key: "huddle", Name: "Huddle"}, sources, codec, nil, clk, dispatch.Inline{}, discard),
			"board":  room.New(room.Config{Key: "board", Name: "Board Room"}, sources, nil, nil, clk, dispatch.Inline{}, discard),
		},
		service:  service.NewScheduleService(memory.NewRepository(), clk, dispatch.Inline{}, discard),
		platform: platform.New(2, discard),
		codec:    codec,
		auth:     newIntrospection(t),
	}
	if schedule == nil {
		schedule = f.service
	}
	f.handler = api.SetupRoutes(api.Dependencies{
		Schedule:      schedule,
		Rooms:         f.rooms,
		Inputs:        f.platform,
		Loop:          dispatch.Inline{},
		WebhookSecret: secret,
		Auth: config.AuthConfig{
			IntrospectionEndpoint: f.auth.URL,
			Admins:                []string{adminIdent},
		},
	})
	return f
}

func (f *fixture) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	for i := 0; i+1 < len(header); i += 2 {
		if header[i+1] == "" {
			req.Header.Del(header[i])
			continue
		}
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

// inputStates lists the closed input ports
func (f *fixture) inputStates() []int {
	var closed []int
	for _, in := range f.platform.DigitalInputs() {
		if in.StateFeedback().Get() {
			closed = append(closed, in.Port())
		}
	}
	return closed
}
