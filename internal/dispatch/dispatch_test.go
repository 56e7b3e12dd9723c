package dispatch_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := dispatch.NewLoop(8, slog.New(slog.NewTextHandler(io.Discard, nil)))
	go loop.Run(ctx)

	var order []int
	for i := 0; i < 5; i++ {
		n := i
		loop.Post(func() { order = append(order, n) })
	}
	loop.Post(func() { panic("boom") })

	callCtx, callCancel := context.WithTimeout(ctx, time.Second)
	defer callCancel()

	var snapshot []int
	require.NoError(t, loop.Call(callCtx, func() { snapshot = append(snapshot, order...) }))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, snapshot)
}

func TestLoopCallHonoursContext(t *testing.T) {
	loop := dispatch.NewLoop(1, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Nobody runs the loop, so the call can never complete
	err := loop.Call(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInline(t *testing.T) {
	ran := false
	dispatch.Inline{}.Post(func() { ran = true })
	assert.True(t, ran)
}

func TestInlineCall(t *testing.T) {
	ran := false
	require.NoError(t, dispatch.Inline{}.Call(context.Background(), func() { ran = true }))
	assert.True(t, ran)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, dispatch.Inline{}.Call(ctx, func() { t.Fatal("must not run") }), context.Canceled)
}
