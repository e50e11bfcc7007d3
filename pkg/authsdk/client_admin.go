package authsdk

import "context"

// Admin operations. The server decides whether the caller may perform them;
// the current access token, if any, is sent as a bearer credential.

// SetRoles assigns roles to username.
func (c *Client) SetRoles(ctx context.Context, username string, roles []string, opts ...PathOption) error {
	return c.admin(ctx, OpSetRoles, resolvePath(c.Paths.SetRoles, opts), setRolesRequest{
		Username: username,
		Roles:    roles,
	})
}

// Blacklist bars username from logging in or refreshing.
func (c *Client) Blacklist(ctx context.Context, username string, opts ...PathOption) error {
	return c.admin(ctx, OpBlacklist, resolvePath(c.Paths.Blacklist, opts), userRequest{Username: username})
}

// Unblacklist lifts a blacklist entry.
func (c *Client) Unblacklist(ctx context.Context, username string, opts ...PathOption) error {
	return c.admin(ctx, OpUnblacklist, resolvePath(c.Paths.Unblacklist, opts), userRequest{Username: username})
}

func (c *Client) admin(ctx context.Context, op Op, path string, payload any) error {
	release, err := c.begin(ctx, op)
	if err != nil {
		return err
	}
	defer release()

	_, err = c.post(ctx, op, path, payload, c.Session().AccessToken)
	return err
}
