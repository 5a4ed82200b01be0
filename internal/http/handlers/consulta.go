package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aulahub/aulahub-backend/internal/http/response"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/services"
)

type ConsultaHandler struct {
	log             *logger.Logger
	consultaService services.ConsultaService
}

func NewConsultaHandler(log *logger.Logger, consultaService services.ConsultaService) *ConsultaHandler {
	return &ConsultaHandler{
		log:             log.With("handler", "ConsultaHandler"),
		consultaService: consultaService,
	}
}

func (h *ConsultaHandler) Create(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	consulta, err := h.consultaService.Create(c.Request.Context(), requester(c), courseID, req.Text)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"consulta": consulta})
}

func (h *ConsultaHandler) ListByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	consultas, err := h.consultaService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"consultas": consultas})
}

func (h *ConsultaHandler) Answer(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	respuesta, err := h.consultaService.Answer(c.Request.Context(), requester(c), c.Param("consultaId"), req.Text)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"respuesta": respuesta})
}

func (h *ConsultaHandler) ListAnswers(c *gin.Context) {
	respuestas, err := h.consultaService.ListAnswers(c.Request.Context(), c.Param("consultaId"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"respuestas": respuestas})
}

func (h *ConsultaHandler) Delete(c *gin.Context) {
	if err := h.consultaService.Delete(c.Request.Context(), requester(c), c.Param("consultaId")); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
