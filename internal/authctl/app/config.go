package app

import (
	"os"
	"strconv"
	"time"

	"github.com/live-labs/authsession/pkg/authsdk"
)

type Config struct {
	ServerURL string        // Auth service base URL (default: http://localhost:8080)
	Timeout   time.Duration // Per-request timeout (default: 10s)
	Paths     authsdk.Paths // Endpoint overrides, AUTH_PATH_* (default: authsdk.DefaultPaths)

	// Session to resume before running the command. Logout, refresh and the
	// admin commands need it since the CLI keeps no state between runs.
	Username     string
	AccessToken  string
	RefreshToken string

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: warn)
	LogFormat string // Log format (json, text) (default: text)
}

func LoadConfig() Config {
	return Config{
		ServerURL: getEnvOrDefault("AUTH_SERVER_URL", "http://localhost:8080"),
		Timeout:   getEnvDurationOrDefault("AUTH_TIMEOUT", authsdk.DefaultTimeout),
		Paths: authsdk.Paths{
			Register:    os.Getenv("AUTH_PATH_REGISTER"),
			Login:       os.Getenv("AUTH_PATH_LOGIN"),
			Logout:      os.Getenv("AUTH_PATH_LOGOUT"),
			Refresh:     os.Getenv("AUTH_PATH_REFRESH"),
			SetRoles:    os.Getenv("AUTH_PATH_SET_ROLES"),
			Blacklist:   os.Getenv("AUTH_PATH_BLACKLIST"),
			Unblacklist: os.Getenv("AUTH_PATH_UNBLACKLIST"),
		},
		Username:     os.Getenv("AUTH_USERNAME"),
		AccessToken:  os.Getenv("AUTH_ACCESS_TOKEN"),
		RefreshToken: os.Getenv("AUTH_REFRESH_TOKEN"),
		Env:          getEnvOrDefault("ENV", "dev"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:    getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "30s", "1m")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
