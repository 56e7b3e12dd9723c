package shutdown_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/navikt/roompanel/internal/clock"
	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/models"
	"github.com/navikt/roompanel/internal/panel"
	"github.com/navikt/roompanel/internal/room"
	"github.com/navikt/roompanel/internal/shutdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	panel   *panel.Panel
	modal   *panel.ModalDialog
	room    *room.Room
	clock   *clock.Fake
	coord   *shutdown.Coordinator
	changes int
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		panel: panel.New("tp1"),
		clock: clock.NewFake(time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)),
	}
	f.room = room.New(room.Config{Key: "huddle", ShutdownPromptSeconds: 60}, models.SourceList{
		"laptop": {PreferredName: "Laptop", IncludeInSourceList: true},
	}, nil, nil, f.clock, dispatch.Inline{}, discard)
	f.modal = panel.NewModalDialog(f.panel)
	f.coord = shutdown.New(f.panel, f.modal, func() { f.changes++ }, discard)
	f.coord.Bind(f.room)
	f.room.RunRouteAction("laptop", nil)
	require.True(t, f.room.OnFeedback().Get())
	return f
}

func TestManualShutdownShowsDialog(t *testing.T) {
	f := setup(t)

	f.room.StartShutdown(models.ShutdownManual)

	assert.True(t, f.coord.ModalVisible())
	assert.Equal(t, 1, f.changes)
	assert.Equal(t, "End Meeting", f.panel.StringValue(panel.JoinModalTitle))
	assert.Equal(t, "Power", f.panel.StringValue(panel.JoinModalIcon))
	assert.Equal(t, "End Meeting Now", f.panel.StringValue(panel.JoinModalButton2Text))
	assert.Equal(t, "Meeting will end in 60 seconds", f.panel.StringValue(panel.JoinModalMessage))
	assert.Equal(t, uint16(65535), f.panel.UshortValue(panel.JoinModalTimerGauge))

	f.clock.Advance(time.Second)
	assert.Equal(t, "Meeting will end in 59 seconds", f.panel.StringValue(panel.JoinModalMessage))
	assert.Equal(t, uint16(98*65535/100), f.panel.UshortValue(panel.JoinModalTimerGauge))
}

func TestCancelKeepsTimeRemainingHandler(t *testing.T) {
	f := setup(t)
	timer := f.room.ShutdownPromptTimer()

	f.room.StartShutdown(models.ShutdownManual)
	timeRemaining, percent := f.coord.TickHandlers()
	require.True(t, timeRemaining)
	require.True(t, percent)

	f.panel.Press(panel.JoinModalButton1Press)

	assert.False(t, timer.IsRunningFeedback().Get())
	assert.False(t, f.coord.ModalVisible())
	assert.True(t, f.room.OnFeedback().Get())
	assert.Equal(t, models.ShutdownNone, f.room.ShutdownType())
	assert.Equal(t, 2, f.changes)

	timeRemaining, percent = f.coord.TickHandlers()
	assert.True(t, timeRemaining)
	assert.False(t, percent)
	assert.Equal(t, 1, timer.TimeRemainingFeedback().Subscribers())
	assert.Equal(t, 0, timer.PercentFeedback().Subscribers())

	// A second round does not stack handlers
	f.room.StartShutdown(models.ShutdownManual)
	assert.Equal(t, 1, timer.TimeRemainingFeedback().Subscribers())
	assert.Equal(t, 1, timer.PercentFeedback().Subscribers())
}

func TestEndNowFinishes(t *testing.T) {
	f := setup(t)
	timer := f.room.ShutdownPromptTimer()
	f.room.StartShutdown(models.ShutdownManual)

	f.panel.Press(panel.JoinModalButton2Press)

	assert.False(t, f.room.OnFeedback().Get())
	assert.False(t, f.coord.ModalVisible())
	assert.Equal(t, 0, timer.TimeRemainingFeedback().Subscribers())
	assert.Equal(t, 0, timer.PercentFeedback().Subscribers())
}

func TestCountdownRunsOut(t *testing.T) {
	f := setup(t)
	f.room.StartShutdown(models.ShutdownVacancy)
	require.True(t, f.coord.ModalVisible())

	f.clock.Advance(2 * time.Minute)

	assert.False(t, f.room.OnFeedback().Get())
	assert.False(t, f.coord.ModalVisible())
	assert.False(t, f.panel.BoolValue(panel.JoinModalVisible))
}

func TestRoomOffClosesDialog(t *testing.T) {
	f := setup(t)
	f.room.StartShutdown(models.ShutdownManual)
	changes := f.changes

	f.room.RunRouteAction(room.RouteOff, nil)

	assert.False(t, f.coord.ModalVisible())
	assert.Greater(t, f.changes, changes)
}

func TestCancelDetachesRoomOffHandler(t *testing.T) {
	f := setup(t)
	onBefore := f.room.OnFeedback().Subscribers()

	f.room.StartShutdown(models.ShutdownManual)
	require.Equal(t, onBefore+1, f.room.OnFeedback().Subscribers())
	f.panel.Press(panel.JoinModalButton1Press)
	assert.Equal(t, onBefore, f.room.OnFeedback().Subscribers())

	// A later dialog on the same panel survives the room going off
	require.True(t, f.modal.Present(panel.ModalOptions{Title: "Incoming Call", Buttons: 1}, nil))
	changes := f.changes

	f.room.RunRouteAction(room.RouteOff, nil)

	assert.True(t, f.modal.IsVisible())
	assert.True(t, f.panel.BoolValue(panel.JoinModalVisible))
	assert.Equal(t, "Incoming Call", f.panel.StringValue(panel.JoinModalTitle))
	assert.Equal(t, changes, f.changes)
}

func TestFinishDetachesRoomOffHandler(t *testing.T) {
	f := setup(t)
	onBefore := f.room.OnFeedback().Subscribers()

	f.room.StartShutdown(models.ShutdownManual)
	f.room.ShutdownPromptTimer().Finish()

	assert.False(t, f.room.OnFeedback().Get())
	assert.False(t, f.coord.ModalVisible())
	assert.Equal(t, onBefore, f.room.OnFeedback().Subscribers())
}

func TestCancelPrompt(t *testing.T) {
	f := setup(t)
	f.room.StartShutdown(models.ShutdownManual)

	f.coord.CancelPrompt()

	assert.False(t, f.room.ShutdownPromptTimer().IsRunningFeedback().Get())
	assert.True(t, f.room.OnFeedback().Get())
}

func TestUnbindReleasesEverything(t *testing.T) {
	f := setup(t)
	timer := f.room.ShutdownPromptTimer()
	f.room.StartShutdown(models.ShutdownManual)
	onBefore := f.room.OnFeedback().Subscribers()

	f.coord.Unbind()

	assert.Equal(t, 0, timer.HasStarted().Subscribers())
	assert.Equal(t, 0, timer.TimeRemainingFeedback().Subscribers())
	assert.Equal(t, 0, timer.PercentFeedback().Subscribers())
	assert.Equal(t, onBefore-1, f.room.OnFeedback().Subscribers())
	assert.False(t, f.panel.BoolValue(panel.JoinModalVisible))

	// Unbound coordinators ignore the timer
	timer.Cancel()
	f.room.StartShutdown(models.ShutdownManual)
	assert.False(t, f.panel.BoolValue(panel.JoinModalVisible))
}
