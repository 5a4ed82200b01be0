package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulahub/aulahub-backend/internal/requestdata"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requester returns the verified identity for a protected request, "" when
// the context carries none.
func requester(c *gin.Context) string {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return ""
	}
	return rd.Username
}
