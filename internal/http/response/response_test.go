package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/aulahub/aulahub-backend/internal/platform/apperr"
)

func respond(t *testing.T, err error) (int, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondDomainError(c, err)
	return rec.Code, rec.Body.String()
}

func TestRespondDomainError_UpstreamDetailStaysInside(t *testing.T) {
	wrapped := fmt.Errorf("%w: published course scan: dial tcp 10.0.0.5:5432: connect: connection refused", apperr.ErrUpstream)

	status, body := respond(t, wrapped)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
	if strings.Contains(body, "10.0.0.5") || strings.Contains(body, "dial tcp") {
		t.Fatalf("driver detail crossed the trust boundary: %s", body)
	}
	if !strings.Contains(body, "upstream unavailable") || !strings.Contains(body, "upstream_unavailable") {
		t.Fatalf("expected the fixed upstream message, got %s", body)
	}
}

func TestRespondDomainError_UnknownErrorStaysOpaque(t *testing.T) {
	status, body := respond(t, errors.New("pq: password authentication failed for user \"aulahub\""))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if strings.Contains(body, "authentication failed") {
		t.Fatalf("internal detail crossed the trust boundary: %s", body)
	}
	if !strings.Contains(body, "internal error") {
		t.Fatalf("expected the opaque message, got %s", body)
	}
}

func TestRespondDomainError_TaxonomyMessagesPassThrough(t *testing.T) {
	status, body := respond(t, fmt.Errorf("%w: course is not open for enrollment", apperr.ErrForbidden))
	if status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
	if !strings.Contains(body, "not open for enrollment") {
		t.Fatalf("domain guard message should reach the caller, got %s", body)
	}
}
