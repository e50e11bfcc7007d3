/*
Package authsdk is a client for the live-labs authentication service.

# Overview

A Client talks to one auth server and owns exactly one Session. Every
operation issues a single JSON POST and, on HTTP 200, updates the session:

	client := authsdk.NewClient("https://auth.example.com")

	if err := client.Register(ctx, "alice", "s3cret"); err != nil {
		return err
	}

	s := client.Session()
	fmt.Println(s.Authenticated, s.Username) // true alice

	if err := client.Refresh(ctx); err != nil {
		return err
	}

	if err := client.Logout(ctx); err != nil {
		return err
	}

# Session lifecycle

	              Register/Login (200)
	  anonymous ────────────────────────▶ authenticated ──┐
	      ▲                                    │          │ Refresh (200)
	      └──────────── Logout (200) ──────────┘ ◀────────┘

Failed calls never touch the session. Any status other than 200 (201 and
204 included) is a failure.

# Errors

Every failure is a *RequestError carrying the operation name and the HTTP
status. Transport and decoding problems leave StatusCode at whatever was
received (0 when no response arrived) and wrap the cause:

	err := client.Login(ctx, "alice", "wrong")
	var reqErr *authsdk.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized {
		// bad credentials
	}

# Paths

Endpoint paths default to /register, /login, /logout, /refresh, /set-roles,
/blacklist and /unblacklist. Override them for the whole client with
WithPaths, or for one call with AtPath:

	client := authsdk.NewClient(base, authsdk.WithPaths(authsdk.Paths{Login: "/v2/login"}))
	err := client.Blacklist(ctx, "mallory", authsdk.AtPath("/admin/blacklist"))

# Admin operations

SetRoles, Blacklist and Unblacklist are admin-only by server policy. The
client performs no authorization check of its own; it forwards the current
access token as a bearer credential and lets the server decide.

# Concurrency

A Client serializes its own operations: a second call waits until the first
completes (or its context is cancelled). Separate Clients are independent.
*/
package authsdk
