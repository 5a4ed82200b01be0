package server

import (
	"github.com/gin-gonic/gin"

	"github.com/aulahub/aulahub-backend/internal/http/handlers"
	"github.com/aulahub/aulahub-backend/internal/http/middleware"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log               *logger.Logger
	AuthMiddleware    *middleware.AuthMiddleware
	CORSOrigins       []string
	MediaDir          string
	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	CourseHandler     *handlers.CourseHandler
	EnrollmentHandler *handlers.EnrollmentHandler
	ConsultaHandler   *handlers.ConsultaHandler
	SocialHandler     *handlers.SocialHandler
	RealtimeHandler   *handlers.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Public: login, register, health, static media, and the published
	// listing. Everything else demands a verified credential.
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.Static("/media", cfg.MediaDir)
	router.GET("/courses/published", cfg.CourseHandler.ListPublished)

	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// Profile
	protected.GET("/me", cfg.UserHandler.GetMe)
	protected.PATCH("/me", cfg.UserHandler.UpdateMe)
	protected.POST("/me/avatar", cfg.UserHandler.UploadAvatar)

	// Courses
	protected.GET("/courses/mine", cfg.CourseHandler.ListMine)
	protected.POST("/courses", cfg.CourseHandler.Create)
	protected.PATCH("/courses/:id", cfg.CourseHandler.Update)
	protected.POST("/courses/:id/publish", cfg.CourseHandler.Publish)
	protected.POST("/courses/:id/unpublish", cfg.CourseHandler.Unpublish)
	protected.POST("/courses/:id/tests", cfg.CourseHandler.CreateTest)
	protected.GET("/courses/:id/tests", cfg.CourseHandler.ListTests)

	// Enrollment
	protected.POST("/courses/:id/enroll", cfg.EnrollmentHandler.Enroll)
	protected.DELETE("/courses/:id/enroll", cfg.EnrollmentHandler.Unenroll)
	protected.GET("/courses/enrolled", cfg.EnrollmentHandler.ListEnrolled)

	// Consultas
	protected.POST("/courses/:id/consultas", cfg.ConsultaHandler.Create)
	protected.GET("/courses/:id/consultas", cfg.ConsultaHandler.ListByCourse)
	protected.POST("/consultas/:consultaId/respuestas", cfg.ConsultaHandler.Answer)
	protected.GET("/consultas/:consultaId/respuestas", cfg.ConsultaHandler.ListAnswers)
	protected.DELETE("/consultas/:consultaId", cfg.ConsultaHandler.Delete)

	// Social
	protected.POST("/friends", cfg.SocialHandler.AddFriend)
	protected.DELETE("/friends/:username", cfg.SocialHandler.RemoveFriend)
	protected.GET("/friends", cfg.SocialHandler.ListFriends)

	// Realtime
	protected.GET("/sse/stream", cfg.RealtimeHandler.Stream)

	return router
}
