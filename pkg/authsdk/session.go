package authsdk

import "fmt"

// Session is the client-local record of the authentication state. The zero
// value is the anonymous session; empty strings stand for absent values.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	AccessToken   string `json:"access_token,omitempty"`
	RefreshToken  string `json:"refresh_token,omitempty"`
}

// IsZero reports whether s is the anonymous session.
func (s Session) IsZero() bool {
	return s == Session{}
}

// Claims decodes the access token without verifying it.
func (s Session) Claims() (*AccessClaims, error) {
	return ParseAccessClaims(s.AccessToken)
}

// validate checks the invariants: an authenticated session holds a username
// and both tokens; any other session is entirely empty.
func (s Session) validate() error {
	hasTokens := s.AccessToken != "" && s.RefreshToken != ""
	switch {
	case s.Authenticated != hasTokens:
		return fmt.Errorf("%w: authenticated=%t with incomplete token pair", ErrInvalidSession, s.Authenticated)
	case s.Authenticated && s.Username == "":
		return fmt.Errorf("%w: authenticated session without username", ErrInvalidSession)
	case !s.Authenticated && !s.IsZero():
		return fmt.Errorf("%w: partial credentials on an anonymous session", ErrInvalidSession)
	}
	return nil
}
