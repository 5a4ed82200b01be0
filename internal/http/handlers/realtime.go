package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/realtime"
	"github.com/aulahub/aulahub-backend/internal/sse"
)

// RealtimeHandler serves the SSE stream. Only verified identities reach it
// (auth middleware), and every connection for an identity joins that
// identity's channel.
type RealtimeHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewRealtimeHandler(log *logger.Logger, hub *sse.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		log: log.With("handler", "RealtimeHandler"),
		hub: hub,
	}
}

func (h *RealtimeHandler) Stream(c *gin.Context) {
	username := requester(c)
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	client := h.hub.NewClient(username)
	h.hub.AddChannel(client, realtime.UserChannel(username))
	h.log.Debug("SSE stream open", "username", username, "client_id", client.ID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Debug("SSE stream closed", "username", username, "client_id", client.ID)
}
