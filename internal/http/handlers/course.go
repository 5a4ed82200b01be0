package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aulahub/aulahub-backend/internal/http/response"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/services"
	"github.com/aulahub/aulahub-backend/internal/types"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

// ListPublished is public read-only: the cached projection.
func (h *CourseHandler) ListPublished(c *gin.Context) {
	courses, err := h.courseService.ListPublished(c.Request.Context())
	if err != nil {
		h.log.Error("ListPublished failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

func (h *CourseHandler) ListMine(c *gin.Context) {
	courses, err := h.courseService.ListOwned(c.Request.Context(), requester(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		StartDate   time.Time `json:"start_date"`
		EndDate     time.Time `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course := types.Course{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	created, err := h.courseService.Create(c.Request.Context(), requester(c), &course)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": created})
}

func (h *CourseHandler) Update(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	var update services.CourseUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updated, err := h.courseService.Update(c.Request.Context(), requester(c), courseID, update)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": updated})
}

func (h *CourseHandler) Publish(c *gin.Context)   { h.setPublished(c, true) }
func (h *CourseHandler) Unpublish(c *gin.Context) { h.setPublished(c, false) }

func (h *CourseHandler) setPublished(c *gin.Context, published bool) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	updated, err := h.courseService.SetPublished(c.Request.Context(), requester(c), courseID, published)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": updated})
}

func (h *CourseHandler) CreateTest(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	var req struct {
		Title    string    `json:"title"`
		HeldAt   time.Time `json:"held_at"`
		MaxScore int       `json:"max_score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	test := types.Test{
		CourseID: courseID,
		Title:    req.Title,
		HeldAt:   req.HeldAt,
		MaxScore: req.MaxScore,
	}
	created, err := h.courseService.CreateTest(c.Request.Context(), requester(c), &test)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"test": created})
}

func (h *CourseHandler) ListTests(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	tests, err := h.courseService.ListTests(c.Request.Context(), courseID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tests": tests})
}
