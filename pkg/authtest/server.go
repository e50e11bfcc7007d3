package authtest

import (
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/live-labs/authsession/pkg/cryptox"
	"github.com/live-labs/authsession/pkg/httpx"
	"github.com/live-labs/authsession/pkg/slogx"
)

// FastArgon2Params trade strength for speed; fine for a throwaway server.
var FastArgon2Params = cryptox.Argon2Params{
	Memory:      64,
	Iterations:  1,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

type Config struct {
	// Secret signs access tokens. Generated when empty.
	Secret string

	AccessTTL time.Duration

	// RequireAdmin guards set-roles, blacklist and unblacklist with an
	// admin bearer token.
	RequireAdmin bool

	// RotateRefresh makes refresh return a new token pair in the body instead
	// of only a bearer header.
	RotateRefresh bool

	Argon2    cryptox.Argon2Params
	RateLimit httpx.RateLimitConfig
	Logger    *slog.Logger

	// Now is the clock used for token timestamps.
	Now func() time.Time
}

// DefaultConfig is permissive: no admin guard, no rotation, lenient limits.
func DefaultConfig() Config {
	return Config{
		AccessTTL: 15 * time.Minute,
		Argon2:    FastArgon2Params,
		RateLimit: httpx.CredentialLimit,
		Logger:    slogx.Discard(),
		Now:       time.Now,
	}
}

type Option func(*Config)

func WithAdminGuard() Option { return func(c *Config) { c.RequireAdmin = true } }

func WithRotatingRefresh() Option { return func(c *Config) { c.RotateRefresh = true } }

func WithSecret(secret string) Option { return func(c *Config) { c.Secret = secret } }

func WithRateLimit(rl httpx.RateLimitConfig) Option { return func(c *Config) { c.RateLimit = rl } }

func WithLogger(l *slog.Logger) Option { return func(c *Config) { c.Logger = l } }

// NewRegistry builds an empty registry for cfg, filling a missing secret.
func NewRegistry(cfg *Config) *Registry {
	if cfg.Secret == "" {
		cfg.Secret = cryptox.MustGenerateToken(cryptox.TokenSize256)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slogx.Discard()
	}

	iss := &issuer{secret: []byte(cfg.Secret), ttl: cfg.AccessTTL, now: cfg.Now}
	return newRegistry(iss, cfg.Argon2)
}

// Server is a running fake auth service.
type Server struct {
	*httptest.Server

	Registry *Registry
	Config   Config
}

// NewServer starts a fake auth service that is closed when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	reg := NewRegistry(&cfg)
	srv := httptest.NewServer(NewHandler(reg, cfg))
	t.Cleanup(srv.Close)

	return &Server{Server: srv, Registry: reg, Config: cfg}
}

// Seed creates a user with roles or fails the test.
func (s *Server) Seed(t testing.TB, username, password string, roles ...string) {
	t.Helper()
	if err := s.Registry.Seed(username, password, roles...); err != nil {
		t.Fatalf("authtest: seed %q: %v", username, err)
	}
}

// AccessToken signs a token for username with roles, for tests that need a
// credential without going through login.
func (s *Server) AccessToken(t testing.TB, username string, roles ...string) string {
	t.Helper()
	tok, err := s.Registry.issuer.sign(username, roles)
	if err != nil {
		t.Fatalf("authtest: sign: %v", err)
	}
	return tok
}
