package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulahub/aulahub-backend/internal/platform/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError maps a service error onto its status code. Internal
// and upstream failures wrap raw driver errors (hosts, DSNs), so both are
// reported with a fixed message; no store detail crosses the trust
// boundary.
func RespondDomainError(c *gin.Context, err error) {
	status, code := apperr.Status(err)
	switch status {
	case http.StatusInternalServerError:
		c.JSON(status, ErrorEnvelope{
			Error: APIError{Message: "internal error", Code: code},
		})
	case http.StatusServiceUnavailable:
		c.JSON(status, ErrorEnvelope{
			Error: APIError{Message: "upstream unavailable", Code: code},
		})
	default:
		RespondError(c, status, code, err)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
