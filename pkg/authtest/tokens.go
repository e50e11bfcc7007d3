package authtest

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type accessClaims struct {
	jwt.RegisteredClaims

	Username string `json:"username"`
	Roles    string `json:"roles"`
}

// issuer signs and verifies HS256 access tokens.
type issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (i *issuer) sign(username string, roles []string) (string, error) {
	now := i.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Username: username,
		Roles:    strings.Join(roles, ","),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// verify checks signature and expiry and returns the roles in the token.
func (i *issuer) verify(raw string) ([]string, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}

	roles := slices.DeleteFunc(strings.Split(claims.Roles, ","), func(s string) bool { return s == "" })
	return roles, nil
}
