package app

import (
	"gorm.io/gorm"

	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/repos"
)

type Repos struct {
	User   repos.UserRepo
	Course repos.CourseRepo
	Test   repos.TestRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:   repos.NewUserRepo(db, log),
		Course: repos.NewCourseRepo(db, log),
		Test:   repos.NewTestRepo(db, log),
	}
}
