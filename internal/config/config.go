// Package config provides configuration management for the application
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Port     string
	LogLevel string
	// SystemFile is the path of the YAML system configuration
	SystemFile string
	// WebhookSecret signs schedule webhook payloads. Empty disables verification.
	WebhookSecret string
	// Auth guards the routes that change schedules or inputs
	Auth AuthConfig
}

// AuthConfig holds the bearer token validation settings for admin routes
type AuthConfig struct {
	// IntrospectionEndpoint validates tokens. Empty disables admin access.
	IntrospectionEndpoint string
	IdentityProvider      string
	// Admins are the identities allowed to use admin routes
	Admins []string
}

// RedisConfig holds Redis/Valkey configuration
type RedisConfig struct {
	Enabled bool
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	// TTL for room schedules (0 means no expiration)
	MeetingTTL time.Duration
}

// GetServerConfig loads server configuration from environment variables
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SystemFile:    getEnv("ROOMPANEL_CONFIG", "roompanel.yaml"),
		WebhookSecret: getEnv("SCHEDULE_WEBHOOK_SECRET", ""),
		Auth:          GetAuthConfig(),
	}
}

// GetAuthConfig loads admin authentication settings from environment variables
func GetAuthConfig() AuthConfig {
	var admins []string
	for _, admin := range strings.Split(getEnv("NAV_IDENT_ADMINS", ""), ",") {
		if admin = strings.TrimSpace(admin); admin != "" {
			admins = append(admins, admin)
		}
	}
	return AuthConfig{
		IntrospectionEndpoint: getEnv("NAIS_TOKEN_INTROSPECTION_ENDPOINT", ""),
		IdentityProvider:      getEnv("AUTH_IDENTITY_PROVIDER", "azuread"),
		Admins:                admins,
	}
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables
func GetRedisConfig() RedisConfig {
	// Parse TTL from environment variable (in hours)
	ttlHours, _ := strconv.Atoi(getEnv("REDIS_MEETING_TTL_HOURS", "24"))
	ttl := time.Duration(ttlHours) * time.Hour

	// Parse DB index
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:    getEnvBool("REDIS_ENABLED", false),
		URI:        getEnv("REDIS_URI_ROOMPANEL", ""),
		Host:       getEnv("REDIS_HOST_ROOMPANEL", getEnv("REDIS_ADDRESS", "localhost")),
		Port:       getEnv("REDIS_PORT_ROOMPANEL", "6379"),
		Username:   getEnv("REDIS_USERNAME_ROOMPANEL", ""),
		Password:   getEnv("REDIS_PASSWORD_ROOMPANEL", getEnv("REDIS_PASSWORD", "")),
		DB:         db,
		KeyPrefix:  getEnv("REDIS_KEY_PREFIX", "roompanel:"),
		MeetingTTL: ttl,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
