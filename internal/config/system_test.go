package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/navikt/roompanel/internal/config"
	"github.com/navikt/roompanel/internal/emergency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSystem = `
platform:
  digital_inputs: 2
devices:
  - key: appletv
    name: Apple TV
    capabilities: [settopbox, uidisplay, channel, dpad]
    has_dpad: true
  - key: laptop
    name: Laptop input
source_lists:
  default:
    laptop:
      preferred_name: Laptop
      icon: Laptop
      order: 1
      include_in_source_list: true
      source_key: laptop
    appletv:
      preferred_name: Apple TV
      icon: TV
      order: 2
      include_in_source_list: true
      disable_codec_sharing: true
      source_key: appletv
rooms:
  - key: huddle
    name: Huddle 1
    source_list: default
    default_present_route: laptop
    warmup_seconds: 10
    cooldown_seconds: 5
    codec:
      key: codec1
      name: Room Kit
    volume:
      key: amp1
      level: 30000
    emergency:
      behavior: shutdown
      trigger:
        type: contact
        number: 1
        trigger_on_close: true
panels:
  - key: tp1
    default_room: huddle
    time_zone: Europe/Oslo
`

func TestParseSystem(t *testing.T) {
	sys, err := config.Parse([]byte(validSystem))
	require.NoError(t, err)

	assert.Equal(t, 2, sys.Platform.DigitalInputs)
	require.Len(t, sys.Devices, 2)
	assert.Equal(t, []string{"settopbox", "uidisplay", "channel", "dpad"}, sys.Devices[0].Capabilities)

	list := sys.SourceLists["default"]
	require.Len(t, list, 2)
	assert.True(t, list["appletv"].DisableCodecSharing)
	assert.Equal(t, "laptop", list["laptop"].SourceKey)

	room, ok := sys.Room("huddle")
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, room.WarmupTime())
	assert.Equal(t, 5*time.Second, room.CooldownTime())
	assert.Equal(t, "Room Kit", room.Codec.Name)
	assert.Equal(t, uint16(30000), room.Volume.Level)
	require.NotNil(t, room.Emergency)
	assert.True(t, room.Emergency.Trigger.TriggerOnClose)

	_, ok = sys.Room("boardroom")
	assert.False(t, ok)

	loc, err := sys.Panels[0].Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Oslo", loc.String())
}

func TestLoadSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roompanel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validSystem), 0o600))

	sys, err := config.Load(path)
	require.NoError(t, err)
	assert.Len(t, sys.Rooms, 1)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateSystem(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		want    error
		message string
	}{
		{
			name:    "unknown source list",
			replace: [2]string{"source_list: default", "source_list: missing"},
			want:    config.ErrInvalidConfig,
			message: "unknown source list",
		},
		{
			name:    "unknown default route",
			replace: [2]string{"default_present_route: laptop", "default_present_route: hdmi"},
			want:    config.ErrInvalidConfig,
			message: "default route",
		},
		{
			name:    "unknown source device",
			replace: [2]string{"source_key: appletv", "source_key: bluray"},
			want:    config.ErrInvalidConfig,
			message: "unknown device",
		},
		{
			name:    "unknown capability",
			replace: [2]string{"[settopbox, uidisplay, channel, dpad]", "[settopbox, teleport]"},
			want:    config.ErrInvalidConfig,
			message: "unknown device capability",
		},
		{
			name:    "emergency port outside platform",
			replace: [2]string{"number: 1", "number: 3"},
			want:    emergency.ErrInvalidPort,
		},
		{
			name:    "unsupported emergency behavior",
			replace: [2]string{"behavior: shutdown", "behavior: lockdown"},
			want:    emergency.ErrUnsupportedTrigger,
		},
		{
			name:    "unknown default room",
			replace: [2]string{"default_room: huddle", "default_room: boardroom"},
			want:    config.ErrInvalidConfig,
			message: "unknown default room",
		},
		{
			name:    "bad time zone",
			replace: [2]string{"time_zone: Europe/Oslo", "time_zone: Mars/Olympus"},
			want:    config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(validSystem, tt.replace[0], tt.replace[1], 1)
			require.NotEqual(t, validSystem, data)

			_, err := config.Parse([]byte(data))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestValidateDuplicates(t *testing.T) {
	sys, err := config.Parse([]byte(validSystem))
	require.NoError(t, err)

	sys.Rooms = append(sys.Rooms, sys.Rooms[0])
	sys.Panels = append(sys.Panels, sys.Panels[0])

	err = sys.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate room key "huddle"`)
	assert.Contains(t, err.Error(), `duplicate panel key "tp1"`)
}

func TestParseMalformed(t *testing.T) {
	_, err := config.Parse([]byte("rooms: [unclosed"))
	assert.Error(t, err)
}
