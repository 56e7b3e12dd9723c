package pagemgr_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/navikt/roompanel/internal/device"
	"github.com/navikt/roompanel/internal/pagemgr"
	"github.com/navikt/roompanel/internal/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simulated(t *testing.T, spec device.Spec) *device.Simulated {
	t.Helper()
	d, err := device.NewSimulated(spec, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return d
}

func TestSetTopBoxPage(t *testing.T) {
	p := panel.New("tp1")
	reg := pagemgr.NewRegistry(p, nil)
	stb := simulated(t, device.Spec{
		Key:          "stb",
		Capabilities: []string{device.CapSetTopBox, device.CapUIDisplay},
		HasDpad:      true,
		HasNumeric:   true,
	})

	pm := reg.For(stb)
	require.IsType(t, &pagemgr.SetTopBox{}, pm)

	pm.Show()
	assert.True(t, p.BoolValue(panel.JoinSetTopBoxPageVisible))
	assert.True(t, p.BoolValue(panel.JoinSetTopBoxDpadVisible))
	assert.True(t, p.BoolValue(panel.JoinSetTopBoxNumericVisible))
	assert.False(t, p.BoolValue(panel.JoinSetTopBoxDvrVisible))

	pm.Hide()
	assert.False(t, p.BoolValue(panel.JoinSetTopBoxPageVisible))
	assert.False(t, p.BoolValue(panel.JoinSetTopBoxDpadVisible))
}

func TestVariantsAndCaching(t *testing.T) {
	p := panel.New("tp1")
	reg := pagemgr.NewRegistry(p, nil)

	disc := simulated(t, device.Spec{Key: "bluray", Capabilities: []string{device.CapDiscPlayer, device.CapUIDisplay}})
	laptop := simulated(t, device.Spec{Key: "laptop", Capabilities: []string{device.CapUIDisplay}, UIType: 3})
	plain := simulated(t, device.Spec{Key: "hdmi"})

	assert.IsType(t, &pagemgr.DiscPlayer{}, reg.For(disc))
	assert.IsType(t, &pagemgr.Default{}, reg.For(laptop))
	assert.Nil(t, reg.For(plain))
	assert.Nil(t, reg.For(nil))

	assert.Same(t, reg.For(laptop), reg.For(laptop))
	assert.Equal(t, 2, reg.Len())

	reg.For(laptop).Show()
	assert.True(t, p.BoolValue(panel.JoinDefaultPageBase+3))

	reg.Reset()
	assert.Equal(t, 0, reg.Len())
}
