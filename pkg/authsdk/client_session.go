package authsdk

import "context"

// Register creates an account and authenticates the session with the tokens
// the server issues for it. Input is passed through unvalidated.
func (c *Client) Register(ctx context.Context, username, password string, opts ...PathOption) error {
	return c.authenticate(ctx, OpRegister, resolvePath(c.Paths.Register, opts), username, password)
}

// Login authenticates the session with existing credentials.
func (c *Client) Login(ctx context.Context, username, password string, opts ...PathOption) error {
	return c.authenticate(ctx, OpLogin, resolvePath(c.Paths.Login, opts), username, password)
}

func (c *Client) authenticate(ctx context.Context, op Op, path, username, password string) error {
	release, err := c.begin(ctx, op)
	if err != nil {
		return err
	}
	defer release()

	resp, err := c.post(ctx, op, path, credentialsRequest{Username: username, Password: password}, "")
	if err != nil {
		return err
	}

	tokens, err := decodeTokens(op, resp)
	if err != nil {
		return err
	}
	if tokens.AccessToken == "" {
		return missingToken(op, resp, "access_token")
	}
	if tokens.RefreshToken == "" {
		return missingToken(op, resp, "refresh_token")
	}

	c.setSession(Session{
		Authenticated: true,
		Username:      username,
		AccessToken:   tokens.AccessToken,
		RefreshToken:  tokens.RefreshToken,
	})

	return nil
}

// Logout revokes the refresh token on the server and resets the session.
// It sends whatever the session holds, so logging out an anonymous session
// sends null credentials and the outcome is up to the server.
func (c *Client) Logout(ctx context.Context, opts ...PathOption) error {
	release, err := c.begin(ctx, OpLogout)
	if err != nil {
		return err
	}
	defer release()

	current := c.Session()
	req := sessionRequest{
		Username:     nullable(current.Username),
		RefreshToken: nullable(current.RefreshToken),
	}

	if _, err := c.post(ctx, OpLogout, resolvePath(c.Paths.Logout, opts), req, ""); err != nil {
		return err
	}

	c.setSession(Session{})
	return nil
}

// Refresh exchanges the refresh token for a new token pair. Username and the
// authenticated flag are left as they are. A response without a new refresh
// token keeps the current one.
func (c *Client) Refresh(ctx context.Context, opts ...PathOption) error {
	release, err := c.begin(ctx, OpRefresh)
	if err != nil {
		return err
	}
	defer release()

	current := c.Session()
	req := sessionRequest{
		Username:     nullable(current.Username),
		RefreshToken: nullable(current.RefreshToken),
	}

	resp, err := c.post(ctx, OpRefresh, resolvePath(c.Paths.Refresh, opts), req, "")
	if err != nil {
		return err
	}

	tokens, err := decodeTokens(OpRefresh, resp)
	if err != nil {
		return err
	}
	if tokens.AccessToken == "" {
		return missingToken(OpRefresh, resp, "access_token")
	}

	next := current
	next.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		next.RefreshToken = tokens.RefreshToken
	}
	c.setSession(next)

	return nil
}
