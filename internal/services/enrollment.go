package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aulahub/aulahub-backend/internal/graph"
	"github.com/aulahub/aulahub-backend/internal/platform/apperr"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/realtime"
	"github.com/aulahub/aulahub-backend/internal/repos"
	"github.com/aulahub/aulahub-backend/internal/types"
)

// EnrollmentService is the coordinator for the enrollment state machine:
// Unenrolled -> Enrolling -> Enrolled and back. Enrolling is guarded on the
// course being published; Unenrolling on the edge existing. The edge in the
// graph store is the sole source of truth for "is enrolled" - the canonical
// store keeps no enrollment list, and the published listing never reflects
// enrollment, so neither transition touches the read cache.
type EnrollmentService interface {
	Enroll(ctx context.Context, studentUsername string, courseID uuid.UUID) error
	Unenroll(ctx context.Context, studentUsername string, courseID uuid.UUID) error
	// ListEnrolled is always a live graph traversal hydrated from the
	// canonical store; there is no cached view of this.
	ListEnrolled(ctx context.Context, studentUsername string) ([]*types.Course, error)
	IsEnrolled(ctx context.Context, studentUsername string, courseID uuid.UUID) (bool, error)
}

type enrollmentService struct {
	log        *logger.Logger
	userRepo   repos.UserRepo
	courseRepo repos.CourseRepo
	graphStore graph.Store
	guard      *edgeGuard
	notifier   Notifier
}

func NewEnrollmentService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	graphStore graph.Store,
	notifier Notifier,
) EnrollmentService {
	return &enrollmentService{
		log:        log.With("service", "EnrollmentService"),
		userRepo:   userRepo,
		courseRepo: courseRepo,
		graphStore: graphStore,
		guard:      newEdgeGuard(userRepo, courseRepo, graphStore),
		notifier:   notifier,
	}
}

// Enroll is idempotent: the edge is merged, so retrying while already
// enrolled leaves exactly one edge and succeeds. Only students enroll;
// the edge models Student->Course.
func (es *enrollmentService) Enroll(ctx context.Context, studentUsername string, courseID uuid.UUID) error {
	student, err := es.userRepo.GetByUsername(ctx, nil, studentUsername)
	if err != nil {
		return err
	}
	if student.Role != types.RoleStudent {
		return fmt.Errorf("%w: only students can enroll", apperr.ErrForbidden)
	}
	course, err := es.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		return err
	}
	if !course.Published {
		return fmt.Errorf("%w: course is not open for enrollment", apperr.ErrForbidden)
	}

	if err := es.guard.createCheckedEdge(ctx, graph.EdgeEnrolled, studentUsername, courseID.String()); err != nil {
		return err
	}

	es.notifier.Notify(ctx, studentUsername, realtime.EventEnrollmentConfirmed, map[string]any{
		"course_id": course.ID,
		"title":     course.Title,
	})
	return nil
}

// Unenroll requires an existing edge; the graph adapter reports ErrNotFound
// when there is none, which doubles as the transition guard.
func (es *enrollmentService) Unenroll(ctx context.Context, studentUsername string, courseID uuid.UUID) error {
	if err := es.graphStore.DeleteEdge(ctx, graph.EdgeEnrolled, studentUsername, courseID.String()); err != nil {
		return err
	}
	es.notifier.Notify(ctx, studentUsername, realtime.EventEnrollmentRemoved, map[string]any{
		"course_id": courseID,
	})
	return nil
}

func (es *enrollmentService) ListEnrolled(ctx context.Context, studentUsername string) ([]*types.Course, error) {
	ids, err := es.graphStore.Traverse(ctx, studentUsername, graph.EdgeEnrolled)
	if err != nil {
		return nil, err
	}
	courseIDs := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, perr := uuid.Parse(raw)
		if perr != nil {
			es.log.Warn("Enrollment edge points at non-uuid node", "node_id", raw)
			continue
		}
		courseIDs = append(courseIDs, id)
	}
	return es.courseRepo.GetByIDs(ctx, nil, courseIDs)
}

func (es *enrollmentService) IsEnrolled(ctx context.Context, studentUsername string, courseID uuid.UUID) (bool, error) {
	return es.graphStore.EdgeExists(ctx, graph.EdgeEnrolled, studentUsername, courseID.String())
}
