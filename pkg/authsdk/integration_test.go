package authsdk_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/live-labs/authsession/pkg/authsdk"
	"github.com/live-labs/authsession/pkg/authtest"
	"github.com/stretchr/testify/require"
)

func TestLifecycleAgainstService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := authtest.NewServer(t)
	client := authsdk.NewClient(srv.URL, authsdk.WithHTTPClient(srv.Client()))

	require.NoError(t, client.Register(ctx, "alice", "pw1"))
	first := client.Session()
	require.True(t, first.Authenticated)
	require.Equal(t, "alice", first.Username)

	claims, err := first.Claims()
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)

	// Registering the same name again fails without touching the session
	err = client.Register(ctx, "alice", "pw1")
	require.True(t, authsdk.IsStatus(err, http.StatusBadRequest))
	require.Equal(t, first, client.Session())

	// The service keeps the refresh token and returns the access token as a header
	require.NoError(t, client.Refresh(ctx))
	refreshed := client.Session()
	require.Equal(t, first.RefreshToken, refreshed.RefreshToken)
	require.NotEmpty(t, refreshed.AccessToken)
	require.Equal(t, "alice", refreshed.Username)

	require.NoError(t, client.Logout(ctx))
	require.True(t, client.Session().IsZero())
	require.Zero(t, srv.Registry.LiveRefreshTokens())

	// Null credentials are refused by the service
	err = client.Logout(ctx)
	require.True(t, authsdk.IsStatus(err, http.StatusBadRequest))

	require.NoError(t, client.Login(ctx, "alice", "pw1"))
	require.True(t, client.Authenticated())

	err = client.Login(ctx, "alice", "wrong")
	require.True(t, authsdk.IsStatus(err, http.StatusUnauthorized))
	require.True(t, client.Authenticated())
}

func TestRotatingRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := authtest.NewServer(t, authtest.WithRotatingRefresh())
	srv.Seed(t, "alice", "pw")
	client := authsdk.NewClient(srv.URL)

	require.NoError(t, client.Login(ctx, "alice", "pw"))
	before := client.Session()

	require.NoError(t, client.Refresh(ctx))
	after := client.Session()
	require.NotEqual(t, before.RefreshToken, after.RefreshToken)
	require.True(t, after.Authenticated)

	// The old refresh token is gone; logout works with the new one
	require.NoError(t, client.Logout(ctx))
}

func TestAdminOperations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := authtest.NewServer(t, authtest.WithAdminGuard())
	srv.Seed(t, "root", "rootpw", authtest.RoleAdmin)
	srv.Seed(t, "bob", "bobpw")

	// Anonymous clients are turned away by the server, not the client
	anon := authsdk.NewClient(srv.URL)
	err := anon.Blacklist(ctx, "bob")
	require.True(t, authsdk.IsStatus(err, http.StatusUnauthorized))

	admin := authsdk.NewClient(srv.URL)
	require.NoError(t, admin.Login(ctx, "root", "rootpw"))

	claims, err := admin.Session().Claims()
	require.NoError(t, err)
	require.True(t, claims.HasRole(authsdk.RoleAdmin))

	require.NoError(t, admin.SetRoles(ctx, "bob", []string{"editor"}))
	u, _ := srv.Registry.User("bob")
	require.Equal(t, []string{"editor"}, u.Roles)

	err = admin.SetRoles(ctx, "ghost", []string{"editor"})
	var reqErr *authsdk.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, authsdk.OpSetRoles, reqErr.Op)
	require.Equal(t, http.StatusNotFound, reqErr.StatusCode)

	require.NoError(t, admin.Blacklist(ctx, "bob"))

	bob := authsdk.NewClient(srv.URL)
	err = bob.Login(ctx, "bob", "bobpw")
	require.True(t, authsdk.IsStatus(err, http.StatusUnauthorized))
	require.False(t, bob.Authenticated())

	require.NoError(t, admin.Unblacklist(ctx, "bob"))
	require.NoError(t, bob.Login(ctx, "bob", "bobpw"))

	bobClaims, err := bob.Session().Claims()
	require.NoError(t, err)
	require.True(t, bobClaims.HasRole("editor"))

	// Regular users cannot manage others
	err = bob.Blacklist(ctx, "root")
	require.True(t, authsdk.IsStatus(err, http.StatusUnauthorized))
}
