package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulahub/aulahub-backend/internal/http/response"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/services"
)

type SocialHandler struct {
	log           *logger.Logger
	socialService services.SocialService
}

func NewSocialHandler(log *logger.Logger, socialService services.SocialService) *SocialHandler {
	return &SocialHandler{
		log:           log.With("handler", "SocialHandler"),
		socialService: socialService,
	}
}

func (h *SocialHandler) AddFriend(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.socialService.AddFriend(c.Request.Context(), requester(c), req.Username); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *SocialHandler) RemoveFriend(c *gin.Context) {
	if err := h.socialService.RemoveFriend(c.Request.Context(), requester(c), c.Param("username")); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *SocialHandler) ListFriends(c *gin.Context) {
	friends, err := h.socialService.ListFriends(c.Request.Context(), requester(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"friends": friends})
}
