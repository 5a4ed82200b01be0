package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus_MapsTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrUnauthenticated, http.StatusUnauthorized, "unauthorized"},
		{ErrForbidden, http.StatusForbidden, "forbidden"},
		{ErrNotFound, http.StatusNotFound, "not_found"},
		{ErrConflict, http.StatusConflict, "conflict"},
		{ErrUpstream, http.StatusServiceUnavailable, "upstream_unavailable"},
		{errors.New("anything else"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, code := Status(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("Status(%v) = %d/%q, want %d/%q", tc.err, status, code, tc.status, tc.code)
		}
	}
}

func TestStatus_SeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("course lookup: %w", ErrNotFound)
	status, _ := Status(wrapped)
	if status != http.StatusNotFound {
		t.Fatalf("wrapped sentinel lost: %d", status)
	}

	apiErr := New(http.StatusForbidden, "forbidden", ErrForbidden)
	if !errors.Is(apiErr, ErrForbidden) {
		t.Fatalf("Error must unwrap to its sentinel")
	}
}
