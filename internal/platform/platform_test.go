package platform_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/navikt/roompanel/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigitalInputs(t *testing.T) {
	cs := platform.New(4, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, 4, cs.NumberOfDigitalInputPorts())
	require.Len(t, cs.DigitalInputs(), 4)

	in, err := cs.DigitalInput(4)
	require.NoError(t, err)
	assert.Equal(t, 4, in.Port())
	assert.False(t, in.StateFeedback().Get())

	var seen []bool
	in.StateFeedback().Subscribe(func(closed bool) { seen = append(seen, closed) })
	in.Set(true)
	in.Set(true)
	in.Set(false)
	assert.Equal(t, []bool{true, false}, seen)
}

func TestDigitalInputOutOfRange(t *testing.T) {
	cs := platform.New(2, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, n := range []int{0, 3, -1} {
		_, err := cs.DigitalInput(n)
		assert.ErrorIs(t, err, platform.ErrNoSuchPort)
	}
}
