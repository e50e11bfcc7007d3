package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/live-labs/authsession/pkg/authsdk"
	"github.com/live-labs/authsession/pkg/authtest"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) Config {
	return Config{
		ServerURL: url,
		Timeout:   5 * time.Second,
		Env:       "test",
		LogLevel:  "error",
		LogFormat: "text",
	}
}

// run executes one command and decodes the printed session.
func run(t *testing.T, cfg Config, args ...string) (authsdk.Session, error) {
	t.Helper()

	var out bytes.Buffer
	application, err := New(cfg, &out)
	require.NoError(t, err)

	if err := application.Run(context.Background(), args); err != nil {
		return authsdk.Session{}, err
	}

	var s authsdk.Session
	require.NoError(t, json.Unmarshal(out.Bytes(), &s))
	return s, nil
}

func TestCommandsChainThroughPrintedSession(t *testing.T) {
	srv := authtest.NewServer(t)
	cfg := testConfig(srv.URL)

	s, err := run(t, cfg, "register", "alice", "pw1")
	require.NoError(t, err)
	require.True(t, s.Authenticated)
	require.Equal(t, "alice", s.Username)

	// Feed the printed tokens into the next invocation
	cfg.Username, cfg.AccessToken, cfg.RefreshToken = s.Username, s.AccessToken, s.RefreshToken

	refreshed, err := run(t, cfg, "refresh")
	require.NoError(t, err)
	require.Equal(t, s.RefreshToken, refreshed.RefreshToken)

	out, err := run(t, cfg, "logout")
	require.NoError(t, err)
	require.True(t, out.IsZero())
}

func TestClaimsCommand(t *testing.T) {
	srv := authtest.NewServer(t)
	srv.Seed(t, "root", "pw", authtest.RoleAdmin)
	cfg := testConfig(srv.URL)

	s, err := run(t, cfg, "login", "root", "pw")
	require.NoError(t, err)
	cfg.Username, cfg.AccessToken, cfg.RefreshToken = s.Username, s.AccessToken, s.RefreshToken

	var out bytes.Buffer
	application, err := New(cfg, &out)
	require.NoError(t, err)
	require.NoError(t, application.Run(context.Background(), []string{"claims"}))

	var claims authsdk.AccessClaims
	require.NoError(t, json.Unmarshal(out.Bytes(), &claims))
	require.Equal(t, "root", claims.Username)
	require.True(t, claims.HasRole("admin"))
}

func TestAdminCommandsAndPathFlag(t *testing.T) {
	srv := authtest.NewServer(t)
	srv.Seed(t, "bob", "pw")

	_, err := run(t, testConfig(srv.URL), "set-roles", "bob", "editor, viewer")
	require.NoError(t, err)

	u, _ := srv.Registry.User("bob")
	require.Equal(t, []string{"editor", "viewer"}, u.Roles)

	_, err = run(t, testConfig(srv.URL), "blacklist", "bob")
	require.NoError(t, err)

	_, err = run(t, testConfig(srv.URL), "-path", "/nowhere", "unblacklist", "bob")
	require.True(t, authsdk.IsStatus(err, http.StatusNotFound))

	u, _ = srv.Registry.User("bob")
	require.True(t, u.Blacklisted)
}

func TestUsageErrors(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")

	for _, args := range [][]string{
		nil,
		{"dance"},
		{"login", "alice"},
		{"logout", "extra"},
		{"-bogus", "logout"},
	} {
		_, err := run(t, cfg, args...)
		require.ErrorIs(t, err, ErrUsage, "args %v", args)
	}
}

func TestNewRejectsPartialSession(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.AccessToken = "A"

	_, err := New(cfg, &bytes.Buffer{})
	require.ErrorIs(t, err, authsdk.ErrInvalidSession)
}

func TestSplitRoles(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitRoles(" a,,b ,"))
	require.Equal(t, []string{}, splitRoles(""))
}
