package app

import (
	"github.com/aulahub/aulahub-backend/internal/http/handlers"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/sse"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Course     *handlers.CourseHandler
	Enrollment *handlers.EnrollmentHandler
	Consulta   *handlers.ConsultaHandler
	Social     *handlers.SocialHandler
	Realtime   *handlers.RealtimeHandler
}

func wireHandlers(log *logger.Logger, cfg Config, serviceset Services, hub *sse.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(serviceset.Auth, cfg.CookieSecure),
		User:       handlers.NewUserHandler(log, serviceset.User),
		Course:     handlers.NewCourseHandler(log, serviceset.Course),
		Enrollment: handlers.NewEnrollmentHandler(log, serviceset.Enrollment),
		Consulta:   handlers.NewConsultaHandler(log, serviceset.Consulta),
		Social:     handlers.NewSocialHandler(log, serviceset.Social),
		Realtime:   handlers.NewRealtimeHandler(log, hub),
	}
}
