package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/navikt/roompanel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRooms(t *testing.T) {
	f := newFixture(t, "", nil)

	rr := f.do(http.MethodGet, "/api/rooms", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var statuses []models.RoomStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &statuses))
	require.Len(t, statuses, 2)
	assert.Equal(t, "board", statuses[0].Key)
	assert.Equal(t, "Board Room", statuses[0].Name)
	assert.Equal(t, "huddle", statuses[1].Key)
	assert.False(t, statuses[1].On)
}

func TestGetRoom(t *testing.T) {
	f := newFixture(t, "", nil)
	f.rooms["huddle"].RunRouteAction("laptop", nil)
	f.codec.Ring()
	f.codec.Answer()

	rr := f.do(http.MethodGet, "/api/rooms/huddle", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var status models.RoomStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.True(t, status.On)
	assert.True(t, status.InCall)
	assert.Equal(t, "laptop", status.CurrentSourceKey)
	assert.Equal(t, "Laptop", status.CurrentSourceName)
	assert.Equal(t, models.ShutdownNone, status.ShutdownType)
}

func TestGetRoomShowsShutdownPrompt(t *testing.T) {
	f := newFixture(t, "", nil)
	f.rooms["board"].RunRouteAction("laptop", nil)
	f.rooms["board"].StartShutdown(models.ShutdownManual)

	rr := f.do(http.MethodGet, "/api/rooms/board", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var status models.RoomStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, models.ShutdownManual, status.ShutdownType)
	assert.NotEmpty(t, status.ShutdownPromptLeft)
}

func TestGetUnknownRoom(t *testing.T) {
	f := newFixture(t, "", nil)

	rr := f.do(http.MethodGet, "/api/rooms/attic", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
