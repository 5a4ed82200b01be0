// Package apperr defines the error taxonomy shared by every store adapter
// and service. Handlers map these onto HTTP statuses; nothing below the
// HTTP layer imports net/http for error reasons.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated covers every credential failure uniformly:
	// missing, malformed, bad signature, expired. Callers must not be able
	// to tell which one it was.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller is authenticated but does not own the
	// resource it is trying to mutate.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means an identifier did not resolve in the canonical or
	// graph store.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness constraint was violated on upsert.
	// Not retryable without changing the conflicting field.
	ErrConflict = errors.New("conflict")

	// ErrUpstream means an adapter call failed for infrastructure reasons.
	ErrUpstream = errors.New("upstream unavailable")
)

// Error carries an HTTP status and stable code alongside the wrapped cause.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Status maps a domain error onto its HTTP status. Unknown errors are
// opaque server failures; no internal detail crosses the trust boundary.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrUpstream):
		return http.StatusServiceUnavailable, "upstream_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
