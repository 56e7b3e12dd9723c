package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetRedisConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := GetRedisConfig()

		assert.False(t, cfg.Enabled)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, "6379", cfg.Port)
		assert.Equal(t, "roompanel:", cfg.KeyPrefix)
		assert.Equal(t, 24*time.Hour, cfg.MeetingTTL)
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REDIS_URI_ROOMPANEL", "redis://cache:6380")
		t.Setenv("REDIS_PASSWORD", "fallback")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("REDIS_MEETING_TTL_HOURS", "2")

		cfg := GetRedisConfig()

		assert.True(t, cfg.Enabled)
		assert.Equal(t, "redis://cache:6380", cfg.URI)
		assert.Equal(t, "fallback", cfg.Password)
		assert.Equal(t, 3, cfg.DB)
		assert.Equal(t, 2*time.Hour, cfg.MeetingTTL)
	})

	t.Run("invalid bool falls back to default", func(t *testing.T) {
		t.Setenv("REDIS_ENABLED", "maybe")
		assert.False(t, GetRedisConfig().Enabled)
	})
}

func TestGetServerConfig(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SCHEDULE_WEBHOOK_SECRET", "s3cret")

	cfg := GetServerConfig()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "roompanel.yaml", cfg.SystemFile)
	assert.Equal(t, "s3cret", cfg.WebhookSecret)
	assert.Empty(t, cfg.Auth.IntrospectionEndpoint)
}

func TestGetAuthConfig(t *testing.T) {
	t.Setenv("NAIS_TOKEN_INTROSPECTION_ENDPOINT", "http://texas/introspect")
	t.Setenv("NAV_IDENT_ADMINS", " A123456, ,B654321")

	cfg := GetAuthConfig()

	assert.Equal(t, "http://texas/introspect", cfg.IntrospectionEndpoint)
	assert.Equal(t, "azuread", cfg.IdentityProvider)
	assert.Equal(t, []string{"A123456", "B654321"}, cfg.Admins)
}
