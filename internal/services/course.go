package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aulahub/aulahub-backend/internal/cache"
	"github.com/aulahub/aulahub-backend/internal/platform/apperr"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/repos"
	"github.com/aulahub/aulahub-backend/internal/types"
)

type CourseUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// CourseService owns course records and the published listing. Mutations
// are gated on course ownership; every publication-state change and edit
// invalidates the read cache, enrollment changes never do.
type CourseService interface {
	Create(ctx context.Context, teacherUsername string, course *types.Course) (*types.Course, error)
	Update(ctx context.Context, requester string, courseID uuid.UUID, update CourseUpdate) (*types.Course, error)
	SetPublished(ctx context.Context, requester string, courseID uuid.UUID, published bool) (*types.Course, error)
	Get(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	ListOwned(ctx context.Context, teacherUsername string) ([]*types.Course, error)
	ListPublished(ctx context.Context) ([]types.PublishedCourse, error)

	CreateTest(ctx context.Context, requester string, test *types.Test) (*types.Test, error)
	ListTests(ctx context.Context, courseID uuid.UUID) ([]*types.Test, error)
}

type courseService struct {
	log        *logger.Logger
	userRepo   repos.UserRepo
	courseRepo repos.CourseRepo
	testRepo   repos.TestRepo
	published  *cache.PublishedCache
}

func NewCourseService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	testRepo repos.TestRepo,
	published *cache.PublishedCache,
) CourseService {
	return &courseService{
		log:        log.With("service", "CourseService"),
		userRepo:   userRepo,
		courseRepo: courseRepo,
		testRepo:   testRepo,
		published:  published,
	}
}

// PublishedSource builds the cache source the app wires into the
// PublishedCache: all published courses projected with their teacher's
// display name. Courses whose teacher record is missing are skipped rather
// than served half-projected.
func PublishedSource(userRepo repos.UserRepo, courseRepo repos.CourseRepo, log *logger.Logger) cache.Source {
	return func(ctx context.Context) ([]types.PublishedCourse, error) {
		courses, err := courseRepo.ListPublished(ctx, nil)
		if err != nil {
			return nil, err
		}
		names := make(map[string]string)
		entries := make([]types.PublishedCourse, 0, len(courses))
		for _, course := range courses {
			name, ok := names[course.TeacherUsername]
			if !ok {
				teacher, terr := userRepo.GetByUsername(ctx, nil, course.TeacherUsername)
				if terr != nil {
					log.Warn("Published course has no teacher record, skipping", "course_id", course.ID)
					continue
				}
				name = teacher.DisplayName()
				names[course.TeacherUsername] = name
			}
			entries = append(entries, types.PublishedCourse{
				CourseID:    course.ID,
				Title:       course.Title,
				Description: course.Description,
				TeacherName: name,
				StartDate:   course.StartDate,
				EndDate:     course.EndDate,
			})
		}
		return entries, nil
	}
}

func (cs *courseService) Create(ctx context.Context, teacherUsername string, course *types.Course) (*types.Course, error) {
	if course == nil || strings.TrimSpace(course.Title) == "" {
		return nil, fmt.Errorf("course title required")
	}
	teacher, err := cs.userRepo.GetByUsername(ctx, nil, teacherUsername)
	if err != nil {
		return nil, err
	}
	if teacher.Role != types.RoleTeacher {
		return nil, apperr.ErrForbidden
	}
	course.ID = uuid.Nil
	course.TeacherUsername = teacher.Username
	course.Published = false
	return cs.courseRepo.Upsert(ctx, nil, course)
}

func (cs *courseService) Update(ctx context.Context, requester string, courseID uuid.UUID, update CourseUpdate) (*types.Course, error) {
	course, err := cs.ownedCourse(ctx, requester, courseID)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, fmt.Errorf("course title required")
		}
		course.Title = title
	}
	if update.Description != nil {
		course.Description = strings.TrimSpace(*update.Description)
	}
	if update.StartDate != nil {
		course.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		course.EndDate = *update.EndDate
	}
	updated, err := cs.courseRepo.Upsert(ctx, nil, course)
	if err != nil {
		return nil, err
	}
	if err := cs.invalidateListing(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (cs *courseService) SetPublished(ctx context.Context, requester string, courseID uuid.UUID, published bool) (*types.Course, error) {
	course, err := cs.ownedCourse(ctx, requester, courseID)
	if err != nil {
		return nil, err
	}
	course.Published = published
	updated, err := cs.courseRepo.Upsert(ctx, nil, course)
	if err != nil {
		return nil, err
	}
	if err := cs.invalidateListing(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (cs *courseService) Get(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	return cs.courseRepo.GetByID(ctx, nil, courseID)
}

func (cs *courseService) ListOwned(ctx context.Context, teacherUsername string) ([]*types.Course, error) {
	return cs.courseRepo.ListByOwner(ctx, nil, teacherUsername)
}

func (cs *courseService) ListPublished(ctx context.Context) ([]types.PublishedCourse, error) {
	return cs.published.GetPublished(ctx)
}

func (cs *courseService) CreateTest(ctx context.Context, requester string, test *types.Test) (*types.Test, error) {
	if test == nil || test.CourseID == uuid.Nil {
		return nil, fmt.Errorf("test with course id required")
	}
	if _, err := cs.ownedCourse(ctx, requester, test.CourseID); err != nil {
		return nil, err
	}
	test.ID = uuid.Nil
	return cs.testRepo.Upsert(ctx, nil, test)
}

func (cs *courseService) ListTests(ctx context.Context, courseID uuid.UUID) ([]*types.Test, error) {
	if _, err := cs.courseRepo.GetByID(ctx, nil, courseID); err != nil {
		return nil, err
	}
	return cs.testRepo.ListByCourse(ctx, nil, courseID)
}

func (cs *courseService) ownedCourse(ctx context.Context, requester string, courseID uuid.UUID) (*types.Course, error) {
	course, err := cs.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherUsername != requester {
		return nil, apperr.ErrForbidden
	}
	return course, nil
}

// invalidateListing must not fail silently: the course mutation is already
// committed, and a surviving snapshot would keep serving it until TTL. One
// retry absorbs a transient drop failure; past that the caller sees the
// error.
func (cs *courseService) invalidateListing(ctx context.Context) error {
	if cs.published == nil {
		return nil
	}
	err := cs.published.Invalidate(ctx)
	if err == nil {
		return nil
	}
	cs.log.Warn("Published cache invalidation failed, retrying", "error", err)
	if err = cs.published.Invalidate(ctx); err != nil {
		cs.log.Error("Published cache invalidation failed after retry", "error", err)
		return err
	}
	return nil
}
