package authsdk

import (
	"errors"
	"fmt"
	"net/http"
)

// Op names the logical operation a RequestError came from.
type Op string

const (
	OpRegister    Op = "Registration"
	OpLogin       Op = "Login"
	OpLogout      Op = "Logout"
	OpRefresh     Op = "Refresh"
	OpSetRoles    Op = "SetRoles"
	OpBlacklist   Op = "Blacklist"
	OpUnblacklist Op = "Unblacklist"
)

var (
	// ErrMissingToken is wrapped when a 200 response lacks a token the
	// operation needs to update the session.
	ErrMissingToken = errors.New("response carries no token")

	// ErrInvalidSession is returned by Restore for a session that breaks the
	// username/token invariants.
	ErrInvalidSession = errors.New("invalid session")

	// ErrNoAccessToken is returned when claims are requested from an empty session.
	ErrNoAccessToken = errors.New("no access token")
)

// maxMessageLen caps how much of an error body is kept on a RequestError.
const maxMessageLen = 256

// RequestError is the only error kind returned by Client operations.
type RequestError struct {
	// Op is the operation that failed.
	Op Op

	// StatusCode is the HTTP status received, or 0 when no response arrived.
	StatusCode int

	// Message is the (truncated) response body of a non-200 answer.
	Message string

	// Err is the underlying cause for transport, context and decoding failures.
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s failed: %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	default:
		return fmt.Sprintf("%s failed: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsStatus reports whether err is a RequestError with the given status code.
func IsStatus(err error, code int) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == code
}

func statusError(op Op, code int, body []byte) *RequestError {
	msg := string(body)
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen]
	}
	return &RequestError{Op: op, StatusCode: code, Message: msg}
}
