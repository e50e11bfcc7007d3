package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/live-labs/authsession/pkg/idx"
	"github.com/live-labs/authsession/pkg/slogx"
)

// response is a fully read HTTP answer.
type response struct {
	status int
	header http.Header
	body   []byte
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// begin waits for exclusive use of the client. The returned func releases it.
func (c *Client) begin(ctx context.Context, op Op) (func(), error) {
	if err := c.guard.Acquire(ctx, 1); err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}
	return func() { c.guard.Release(1) }, nil
}

// post sends payload as JSON to path and reads the whole response. A non-200
// status is turned into a RequestError here so callers only see success.
func (c *Client) post(ctx context.Context, op Op, path string, payload any, bearer string) (*response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}

	reqID := idx.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(slogx.RequestIDHeader, reqID)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.Logger.Debug("auth_request",
		"op", string(op),
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"req_id", reqID,
	)

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(op, resp.StatusCode, raw)
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: raw}, nil
}

// decodeTokens reads an access/refresh pair from a 200 answer. The access
// token may instead arrive as an Authorization bearer header, which is how
// the auth service answers refresh.
func decodeTokens(op Op, resp *response) (tokenResponse, error) {
	var tokens tokenResponse

	if len(bytes.TrimSpace(resp.body)) > 0 {
		if err := json.Unmarshal(resp.body, &tokens); err != nil {
			return tokens, &RequestError{Op: op, StatusCode: resp.status, Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	if tokens.AccessToken == "" {
		tokens.AccessToken = bearerToken(resp.header)
	}

	return tokens, nil
}

func bearerToken(h http.Header) string {
	authz := h.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
}

func missingToken(op Op, resp *response, which string) error {
	return &RequestError{Op: op, StatusCode: resp.status, Err: fmt.Errorf("%w: %s", ErrMissingToken, which)}
}
