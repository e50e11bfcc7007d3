package authsdk

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/live-labs/authsession/pkg/slogx"
	"golang.org/x/sync/semaphore"
)

// DefaultTimeout bounds a single request when the caller does not supply an
// http.Client of its own.
const DefaultTimeout = 10 * time.Second

// Client is a stateful client for the auth service. It owns one Session and
// mutates it only from its own operations. Use NewClient to create one.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Paths      Paths
	Logger     *slog.Logger

	// guard serializes operations on this client.
	guard *semaphore.Weighted

	mu      sync.RWMutex
	session Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithPaths overrides endpoint paths. Empty fields keep their defaults.
func WithPaths(p Paths) Option {
	return func(c *Client) { c.Paths = p.withDefaults() }
}

// WithLogger sets the logger used for per-request debug records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.Logger = l
		}
	}
}

// NewClient creates an unauthenticated client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		Paths:  DefaultPaths(),
		Logger: slogx.Discard(),
		guard:  semaphore.NewWeighted(1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Session returns a copy of the current session.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Authenticated reports whether the last register/login succeeded and no
// logout has happened since.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Authenticated
}

// Restore replaces the session, e.g. with tokens kept by the caller from an
// earlier process. Authenticated is derived from the tokens rather than
// trusted from s; s must be anonymous or carry a username and both tokens.
func (c *Client) Restore(s Session) error {
	s.Authenticated = s.AccessToken != "" && s.RefreshToken != ""
	if err := s.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	return nil
}

func (c *Client) setSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}
