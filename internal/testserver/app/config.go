package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Secret        string        // Optional: HS256 secret for access tokens (default: random per run)
	AccessTTL     time.Duration // Access token lifetime (default: 15m)
	RequireAdmin  bool          // Guard admin endpoints with an admin bearer token (default: true)
	RotateRefresh bool          // Return a fresh refresh token on refresh (default: false)
	AdminUsername string        // Optional: seed an admin account with this name
	AdminPassword string        // Password for the seeded admin

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Secret:              os.Getenv("AUTH_SECRET"),
		AccessTTL:           getEnvDurationOrDefault("AUTH_ACCESS_TTL", 15*time.Minute),
		RequireAdmin:        getEnvBoolOrDefault("AUTH_REQUIRE_ADMIN", true),
		RotateRefresh:       getEnvBoolOrDefault("AUTH_ROTATE_REFRESH", false),
		AdminUsername:       os.Getenv("AUTH_ADMIN_USERNAME"),
		AdminPassword:       os.Getenv("AUTH_ADMIN_PASSWORD"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if intValue, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return duration
	}
	return defaultValue
}
