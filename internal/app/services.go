package app

import (
	"github.com/aulahub/aulahub-backend/internal/cache"
	"github.com/aulahub/aulahub-backend/internal/graph"
	"github.com/aulahub/aulahub-backend/internal/platform/localmedia"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/realtime/bus"
	"github.com/aulahub/aulahub-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Course     services.CourseService
	Enrollment services.EnrollmentService
	Consulta   services.ConsultaService
	Social     services.SocialService
	Notifier   services.Notifier
}

func wireServices(
	log *logger.Logger,
	cfg Config,
	reposet Repos,
	graphStore graph.Store,
	published *cache.PublishedCache,
	eventBus bus.Bus,
	uploader localmedia.Uploader,
) Services {
	log.Info("Wiring services...")

	notifier := services.NewNotifier(log, eventBus)

	return Services{
		Auth:       services.NewAuthService(log, reposet.User, cfg.JWTSecretKey, cfg.TokenTTL),
		User:       services.NewUserService(log, reposet.User, uploader),
		Course:     services.NewCourseService(log, reposet.User, reposet.Course, reposet.Test, published),
		Enrollment: services.NewEnrollmentService(log, reposet.User, reposet.Course, graphStore, notifier),
		Consulta:   services.NewConsultaService(log, reposet.Course, graphStore, notifier),
		Social:     services.NewSocialService(log, reposet.User, reposet.Course, graphStore, notifier),
		Notifier:   notifier,
	}
}
