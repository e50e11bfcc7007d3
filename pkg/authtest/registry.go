package authtest

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/live-labs/authsession/pkg/cryptox"
	"github.com/live-labs/authsession/pkg/idx"
)

// RoleAdmin is the role allowed to call the user management endpoints.
const RoleAdmin = "admin"

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUserExists     = errors.New("user already exists")
	ErrUnknownUser    = errors.New("user not found")
	ErrAdminImmutable = errors.New("admin role can't be removed")
)

// User is the public view of an account.
type User struct {
	Username    string
	Roles       []string
	Blacklisted bool
}

type account struct {
	User
	passwordHash string
}

// Registry holds accounts and live refresh tokens.
type Registry struct {
	issuer *issuer
	params cryptox.Argon2Params

	mu       sync.Mutex
	accounts map[string]*account
	refresh  map[string]string // fingerprint(refresh token) -> username
}

func newRegistry(iss *issuer, params cryptox.Argon2Params) *Registry {
	return &Registry{
		issuer:   iss,
		params:   params,
		accounts: make(map[string]*account),
		refresh:  make(map[string]string),
	}
}

// Register creates a user with no roles.
func (r *Registry) Register(username, password string) error {
	hash, err := cryptox.HashPassword(password, r.params)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[username]; ok {
		return ErrUserExists
	}

	r.accounts[username] = &account{
		User:         User{Username: username},
		passwordHash: hash,
	}
	return nil
}

// Login checks credentials and issues an access token plus a refresh token.
func (r *Registry) Login(username, password string) (access, refresh string, err error) {
	r.mu.Lock()
	acc, ok := r.accounts[username]
	var hash string
	if ok {
		hash = acc.passwordHash
	}
	r.mu.Unlock()

	if !ok {
		return "", "", ErrUnauthorized
	}

	// Verify outside the lock, argon2 is slow on purpose.
	if err := cryptox.VerifyPassword(password, hash); err != nil {
		return "", "", ErrUnauthorized
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if acc.Blacklisted {
		return "", "", ErrUnauthorized
	}

	access, err = r.issuer.sign(acc.Username, acc.Roles)
	if err != nil {
		return "", "", err
	}

	refresh = newRefreshToken()
	r.refresh[cryptox.FingerprintToken(refresh)] = acc.Username

	return access, refresh, nil
}

// Refresh issues a new access token for a refresh token bound to username.
// With rotate set, the refresh token is replaced as well; otherwise the same
// one is returned.
func (r *Registry) Refresh(username, refresh string, rotate bool) (string, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fp := cryptox.FingerprintToken(refresh)
	if owner, ok := r.refresh[fp]; !ok || owner != username {
		return "", "", ErrUnauthorized
	}

	acc, ok := r.accounts[username]
	if !ok || acc.Blacklisted {
		return "", "", ErrUnauthorized
	}

	access, err := r.issuer.sign(acc.Username, acc.Roles)
	if err != nil {
		return "", "", err
	}

	if rotate {
		delete(r.refresh, fp)
		refresh = newRefreshToken()
		r.refresh[cryptox.FingerprintToken(refresh)] = username
	}

	return access, refresh, nil
}

// Logout revokes a refresh token bound to username.
func (r *Registry) Logout(username, refresh string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[username]; !ok {
		return ErrUnauthorized
	}

	fp := cryptox.FingerprintToken(refresh)
	if r.refresh[fp] != username {
		return ErrUnauthorized
	}

	delete(r.refresh, fp)
	return nil
}

// SetRoles adds roles to a user. Admins are left alone.
func (r *Registry) SetRoles(username string, roles ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[username]
	if !ok {
		return ErrUnknownUser
	}
	if slices.Contains(acc.Roles, RoleAdmin) {
		return ErrAdminImmutable
	}

	for _, role := range roles {
		if role != "" && !slices.Contains(acc.Roles, role) {
			acc.Roles = append(acc.Roles, role)
		}
	}
	return nil
}

// SetBlacklisted flips the blacklist flag of a user.
func (r *Registry) SetBlacklisted(username string, blacklisted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[username]
	if !ok {
		return ErrUnknownUser
	}
	acc.Blacklisted = blacklisted
	return nil
}

// User returns a copy of the named account.
func (r *Registry) User(username string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[username]
	if !ok {
		return User{}, false
	}
	u := acc.User
	u.Roles = slices.Clone(acc.Roles)
	return u, true
}

// LiveRefreshTokens counts refresh tokens that have not been revoked.
func (r *Registry) LiveRefreshTokens() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refresh)
}

// Seed creates a user with roles directly, bypassing the admin checks.
func (r *Registry) Seed(username, password string, roles ...string) error {
	if err := r.Register(username, password); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[username].Roles = slices.Clone(roles)
	return nil
}

// newRefreshToken is a sortable ULID prefix plus 256 random bits.
func newRefreshToken() string {
	return idx.New().String() + "." + cryptox.MustGenerateToken(cryptox.TokenSize256)
}
