package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"AUTH_SERVER_URL", "AUTH_TIMEOUT", "AUTH_PATH_LOGIN", "AUTH_USERNAME", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "http://localhost:8080", cfg.ServerURL)
	require.Equal(t, 10*time.Second, cfg.Timeout)
	require.Empty(t, cfg.Paths.Login)
	require.Empty(t, cfg.Username)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AUTH_SERVER_URL", "https://auth.example.com")
	t.Setenv("AUTH_PATH_LOGIN", "/v2/login")
	t.Setenv("AUTH_USERNAME", "alice")
	t.Setenv("AUTH_ACCESS_TOKEN", "A")
	t.Setenv("AUTH_REFRESH_TOKEN", "R")

	cfg := LoadConfig()
	require.Equal(t, "https://auth.example.com", cfg.ServerURL)
	require.Equal(t, "/v2/login", cfg.Paths.Login)
	require.Equal(t, "alice", cfg.Username)
	require.Equal(t, "A", cfg.AccessToken)
	require.Equal(t, "R", cfg.RefreshToken)
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 5 * time.Second},
		{"30s", 30 * time.Second},
		{"2m", 2 * time.Minute},
		{"15", 15 * time.Second},
		{"soon", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Setenv("TEST_DURATION", tt.value)
		require.Equal(t, tt.want, getEnvDurationOrDefault("TEST_DURATION", 5*time.Second), "value %q", tt.value)
	}
}
