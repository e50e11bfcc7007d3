package authtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Secret = "test_secret"
	return NewRegistry(&cfg)
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	require.NoError(t, reg.Register("user1", "password1"))
	require.ErrorIs(t, reg.Register("user1", "password1"), ErrUserExists)

	u, ok := reg.User("user1")
	require.True(t, ok)
	require.Empty(t, u.Roles)
	require.False(t, u.Blacklisted)
}

func TestRegistryLogin(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)
	require.NoError(t, reg.Register("user1", "password1"))

	t.Run("correct credentials", func(t *testing.T) {
		access, refresh, err := reg.Login("user1", "password1")
		require.NoError(t, err)
		require.NotEmpty(t, access)
		require.NotEmpty(t, refresh)

		roles, err := reg.issuer.verify(access)
		require.NoError(t, err)
		require.Empty(t, roles)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := reg.Login("user1", "password2")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, _, err := reg.Login("user2", "password1")
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestRegistryRefresh(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)
	require.NoError(t, reg.Register("user1", "password1"))
	require.NoError(t, reg.Register("user2", "password2"))

	_, refresh, err := reg.Login("user1", "password1")
	require.NoError(t, err)

	t.Run("keeps refresh token", func(t *testing.T) {
		access, same, err := reg.Refresh("user1", refresh, false)
		require.NoError(t, err)
		require.NotEmpty(t, access)
		require.Equal(t, refresh, same)
	})

	t.Run("wrong refresh token", func(t *testing.T) {
		_, _, err := reg.Refresh("user1", "nope", false)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token of another user", func(t *testing.T) {
		_, _, err := reg.Refresh("user2", refresh, false)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("rotation revokes old token", func(t *testing.T) {
		_, rotated, err := reg.Refresh("user1", refresh, true)
		require.NoError(t, err)
		require.NotEqual(t, refresh, rotated)

		_, _, err = reg.Refresh("user1", refresh, false)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestRegistryBlacklist(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)
	require.NoError(t, reg.Register("user1", "password1"))

	_, refresh, err := reg.Login("user1", "password1")
	require.NoError(t, err)

	require.NoError(t, reg.SetBlacklisted("user1", true))

	_, _, err = reg.Login("user1", "password1")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = reg.Refresh("user1", refresh, false)
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, reg.SetBlacklisted("user1", false))
	_, _, err = reg.Login("user1", "password1")
	require.NoError(t, err)

	require.ErrorIs(t, reg.SetBlacklisted("ghost", true), ErrUnknownUser)
}

func TestRegistrySetRoles(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)
	require.NoError(t, reg.Register("bob", "pw"))
	require.NoError(t, reg.Seed("root", "pw", RoleAdmin))

	require.NoError(t, reg.SetRoles("bob", "editor", "viewer", "editor"))
	u, _ := reg.User("bob")
	require.Equal(t, []string{"editor", "viewer"}, u.Roles)

	// Roles accumulate
	require.NoError(t, reg.SetRoles("bob", "admin"))
	u, _ = reg.User("bob")
	require.Equal(t, []string{"editor", "viewer", "admin"}, u.Roles)

	require.ErrorIs(t, reg.SetRoles("root", "viewer"), ErrAdminImmutable)
	require.ErrorIs(t, reg.SetRoles("ghost", "viewer"), ErrUnknownUser)
}

func TestRegistryLogout(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)
	require.NoError(t, reg.Register("user1", "password1"))

	_, refresh, err := reg.Login("user1", "password1")
	require.NoError(t, err)
	require.Equal(t, 1, reg.LiveRefreshTokens())

	require.ErrorIs(t, reg.Logout("ghost", refresh), ErrUnauthorized)
	require.NoError(t, reg.Logout("user1", refresh))
	require.Zero(t, reg.LiveRefreshTokens())

	// Second logout with the same token is rejected
	require.ErrorIs(t, reg.Logout("user1", refresh), ErrUnauthorized)
}

func TestIssuerRejectsExpiredAndForeignTokens(t *testing.T) {
	t.Parallel()
	now := time.Unix(1700000000, 0)

	iss := &issuer{secret: []byte("a"), ttl: time.Minute, now: func() time.Time { return now }}
	tok, err := iss.sign("alice", []string{"admin", "editor"})
	require.NoError(t, err)

	roles, err := iss.verify(tok)
	require.NoError(t, err)
	require.Equal(t, []string{"admin", "editor"}, roles)

	later := &issuer{secret: []byte("a"), ttl: time.Minute, now: func() time.Time { return now.Add(time.Hour) }}
	_, err = later.verify(tok)
	require.Error(t, err)

	other := &issuer{secret: []byte("b"), ttl: time.Minute, now: func() time.Time { return now }}
	_, err = other.verify(tok)
	require.Error(t, err)
}
