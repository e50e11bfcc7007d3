package authtest

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/live-labs/authsession/pkg/httpx"
	"github.com/live-labs/authsession/pkg/slogx"
)

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionBody struct {
	Username     string `json:"username"`
	RefreshToken string `json:"refresh_token"`
}

type setRolesBody struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type userBody struct {
	Username string `json:"username"`
}

type tokenBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type handlers struct {
	reg *Registry
	iss *issuer
	cfg Config
}

// NewHandler mounts the auth endpoints for reg on their default paths.
func NewHandler(reg *Registry, cfg Config) http.Handler {
	h := &handlers{reg: reg, iss: reg.issuer, cfg: cfg}

	credLimit := httpx.RateLimitMiddleware(cfg.RateLimit, httpx.JSONFieldKeyExtractor("username"))
	var admin []httpx.Middleware
	if cfg.RequireAdmin {
		admin = append(admin, h.requireAdmin)
	}

	mux := http.NewServeMux()
	mux.Handle("/register", httpx.Chain(http.HandlerFunc(h.register), credLimit))
	mux.Handle("/login", httpx.Chain(http.HandlerFunc(h.login), credLimit))
	mux.HandleFunc("/logout", h.logout)
	mux.HandleFunc("/refresh", h.refresh)
	mux.Handle("/set-roles", httpx.Chain(http.HandlerFunc(h.setRoles), admin...))
	mux.Handle("/blacklist", httpx.Chain(http.HandlerFunc(h.blacklist), admin...))
	mux.Handle("/unblacklist", httpx.Chain(http.HandlerFunc(h.unblacklist), admin...))

	return httpx.Chain(mux,
		slogx.HTTPMiddleware(cfg.Logger),
		httpx.RequirePost,
		httpx.RequireJSON,
	)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, "Bad request, could not decode body")
		return false
	}
	return true
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if !decode(w, r, &body) {
		return
	}
	if body.Username == "" || body.Password == "" {
		httpx.WriteText(w, http.StatusBadRequest, "Bad request, username and password required")
		return
	}

	if err := h.reg.Register(body.Username, body.Password); err != nil {
		httpx.WriteText(w, http.StatusBadRequest, err.Error())
		return
	}

	h.issue(w, r, body)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if !decode(w, r, &body) {
		return
	}
	if body.Username == "" || body.Password == "" {
		httpx.WriteText(w, http.StatusBadRequest, "Bad request, username and password required")
		return
	}

	h.issue(w, r, body)
}

func (h *handlers) issue(w http.ResponseWriter, r *http.Request, body credentialsBody) {
	access, refresh, err := h.reg.Login(body.Username, body.Password)
	if err != nil {
		h.fail(w, r, http.StatusUnauthorized, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+access)
	httpx.WriteJSON(w, http.StatusOK, tokenBody{AccessToken: access, RefreshToken: refresh})
}

func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if !decode(w, r, &body) {
		return
	}
	if body.Username == "" || body.RefreshToken == "" {
		httpx.WriteText(w, http.StatusBadRequest, "Bad request, username and refresh token required")
		return
	}

	access, refresh, err := h.reg.Refresh(body.Username, body.RefreshToken, h.cfg.RotateRefresh)
	if err != nil {
		h.fail(w, r, http.StatusUnauthorized, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+access)
	if !h.cfg.RotateRefresh {
		// The service answers a plain refresh with the new token in the
		// header only.
		httpx.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenBody{AccessToken: access, RefreshToken: refresh})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if !decode(w, r, &body) {
		return
	}
	if body.Username == "" || body.RefreshToken == "" {
		httpx.WriteText(w, http.StatusBadRequest, "Bad request, username and refresh token required")
		return
	}

	if err := h.reg.Logout(body.Username, body.RefreshToken); err != nil {
		h.fail(w, r, http.StatusUnauthorized, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}

func (h *handlers) setRoles(w http.ResponseWriter, r *http.Request) {
	var body setRolesBody
	if !decode(w, r, &body) {
		return
	}
	if body.Username == "" {
		httpx.WriteText(w, http.StatusBadRequest, "Bad request, username required")
		return
	}

	if err := h.reg.SetRoles(body.Username, body.Roles...); err != nil {
		h.fail(w, r, http.StatusNotFound, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}

func (h *handlers) blacklist(w http.ResponseWriter, r *http.Request) {
	h.setBlacklisted(w, r, true)
}

func (h *handlers) unblacklist(w http.ResponseWriter, r *http.Request) {
	h.setBlacklisted(w, r, false)
}

func (h *handlers) setBlacklisted(w http.ResponseWriter, r *http.Request, blacklisted bool) {
	var body userBody
	if !decode(w, r, &body) {
		return
	}
	if body.Username == "" {
		httpx.WriteText(w, http.StatusBadRequest, "Bad request, username required")
		return
	}

	if err := h.reg.SetBlacklisted(body.Username, blacklisted); err != nil {
		h.fail(w, r, http.StatusNotFound, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}

// requireAdmin lets a request through only with a valid bearer token whose
// roles include admin.
func (h *handlers) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			httpx.WriteText(w, http.StatusUnauthorized, "Bearer authorization expected")
			return
		}

		roles, err := h.iss.verify(strings.TrimSpace(strings.TrimPrefix(authz, "Bearer ")))
		if err != nil {
			slogx.FromContext(r.Context()).Warn("jwt verify failed", "err", err)
			httpx.WriteText(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		if !slices.Contains(roles, RoleAdmin) {
			httpx.WriteText(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	if !isDomainError(err) {
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		code = http.StatusInternalServerError
	}
	httpx.WriteText(w, code, err.Error())
}

func isDomainError(err error) bool {
	for _, target := range []error{ErrUnauthorized, ErrUserExists, ErrUnknownUser, ErrAdminImmutable} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
