package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aulahub/aulahub-backend/internal/platform/apperr"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/requestdata"
	"github.com/aulahub/aulahub-backend/internal/types"
)

// stubAuthService accepts exactly one token string.
type stubAuthService struct {
	validToken string
	username   string
}

func (s *stubAuthService) Register(_ context.Context, user *types.User, _ string) (*types.User, error) {
	return user, nil
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (string, error) {
	return s.validToken, nil
}

func (s *stubAuthService) Verify(tokenString string) (string, error) {
	if tokenString == s.validToken {
		return s.username, nil
	}
	return "", apperr.ErrUnauthenticated
}

func (s *stubAuthService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	username, err := s.Verify(tokenString)
	if err != nil {
		return ctx, err
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		Username:    username,
	}), nil
}

func (s *stubAuthService) TokenTTL() time.Duration { return time.Hour }

func newGuardedRouter(t *testing.T, auth *stubAuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	am := NewAuthMiddleware(log, auth)

	router := gin.New()
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"username": rd.Username})
	})
	return router
}

func TestRequireAuth_AcceptsCookie(t *testing.T) {
	auth := &stubAuthService{validToken: "good-token", username: "ana"}
	router := newGuardedRouter(t, auth)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "good-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireAuth_AcceptsBearerHeader(t *testing.T) {
	auth := &stubAuthService{validToken: "good-token", username: "ana"}
	router := newGuardedRouter(t, auth)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAuth_UniformRejection(t *testing.T) {
	auth := &stubAuthService{validToken: "good-token", username: "ana"}
	router := newGuardedRouter(t, auth)

	build := []func(r *http.Request){
		func(r *http.Request) {}, // no credential at all
		func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: "tampered"}) },
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer expired") },
		func(r *http.Request) { r.Header.Set("Authorization", "NotBearer good-token") },
	}

	var bodies []string
	for i, prep := range build {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		prep(req)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("case %d: expected 401, got %d", i, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}
	// The rejection is byte-identical regardless of how the credential
	// failed.
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Fatalf("rejection bodies differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestRequireAuth_CookieWinsOverHeader(t *testing.T) {
	auth := &stubAuthService{validToken: "cookie-token", username: "ana"}
	router := newGuardedRouter(t, auth)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("cookie should be preferred; got %d", rec.Code)
	}
}
