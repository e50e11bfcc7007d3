package authsdk

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin implies every other role.
const RoleAdmin = "admin"

// Roles is a role list. On the wire it is either a comma separated string
// (what the auth service signs) or a JSON array.
type Roles []string

func (r *Roles) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*r = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("roles: expected string or array: %w", err)
	}

	*r = nil
	for _, role := range strings.Split(joined, ",") {
		if role = strings.TrimSpace(role); role != "" {
			*r = append(*r, role)
		}
	}
	return nil
}

// AccessClaims are the claims the auth service puts into access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims

	Username string `json:"username,omitempty"`
	Roles    Roles  `json:"roles,omitempty"`
}

// HasRole reports whether the token grants role. Admins have every role.
func (c *AccessClaims) HasRole(role string) bool {
	return slices.Contains(c.Roles, RoleAdmin) || slices.Contains(c.Roles, role)
}

// ParseAccessClaims decodes an access token WITHOUT verifying its signature.
// Use it to inspect what the server granted, never to make trust decisions.
func ParseAccessClaims(token string) (*AccessClaims, error) {
	if token == "" {
		return nil, ErrNoAccessToken
	}

	var claims AccessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	return &claims, nil
}
