package app

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/live-labs/authsession/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestSeededAdminCanManageUsers(t *testing.T) {
	t.Setenv("AUTH_ADMIN_USERNAME", "root")
	t.Setenv("AUTH_ADMIN_PASSWORD", "rootpw")
	t.Setenv("LOG_LEVEL", "error")

	cfg := LoadConfig()
	require.True(t, cfg.RequireAdmin)

	application, err := New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	ctx := context.Background()
	user := authsdk.NewClient(srv.URL)
	require.NoError(t, user.Register(ctx, "bob", "pw"))

	admin := authsdk.NewClient(srv.URL)
	require.NoError(t, admin.Login(ctx, "root", "rootpw"))
	require.NoError(t, admin.SetRoles(ctx, "bob", []string{"editor"}))

	require.Error(t, user.Blacklist(ctx, "root"))
}

func TestAdminNeedsPassword(t *testing.T) {
	cfg := LoadConfig()
	cfg.AdminUsername = "root"
	cfg.AdminPassword = ""

	_, err := New(cfg)
	require.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"AUTH_REQUIRE_ADMIN", "AUTH_ROTATE_REFRESH", "AUTH_ACCESS_TTL", "PORT"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.True(t, cfg.RequireAdmin)
	require.False(t, cfg.RotateRefresh)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 8080, cfg.Port)

	t.Setenv("AUTH_REQUIRE_ADMIN", "false")
	t.Setenv("PORT", "9999")
	cfg = LoadConfig()
	require.False(t, cfg.RequireAdmin)
	require.Equal(t, 9999, cfg.Port)
}
