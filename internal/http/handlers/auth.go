package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulahub/aulahub-backend/internal/http/middleware"
	"github.com/aulahub/aulahub-backend/internal/http/response"
	"github.com/aulahub/aulahub-backend/internal/services"
	"github.com/aulahub/aulahub-backend/internal/types"
)

type AuthHandler struct {
	authService  services.AuthService
	cookieSecure bool
}

func NewAuthHandler(authService services.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user := types.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}
	created, err := ah.authService.Register(c.Request.Context(), &user, req.Password)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": created.Sanitized()})
}

// Login verifies credentials and sets the session cookie. The token is the
// session: nothing about it is stored server-side.
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	token, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	maxAge := int(ah.authService.TokenTTL().Seconds())
	c.SetCookie(middleware.CookieName, token, maxAge, "/", "", ah.cookieSecure, true)
	response.RespondOK(c, gin.H{
		"token":      token,
		"expires_in": maxAge,
	})
}

// Logout clears the cookie. The credential itself stays valid until its
// expiry; the server keeps no session state to revoke.
func (ah *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.CookieName, "", -1, "/", "", ah.cookieSecure, true)
	response.RespondOK(c, gin.H{"ok": true})
}
