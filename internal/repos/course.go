package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/types"
)

type CourseRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Course, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, teacherUsername string) ([]*types.Course, error)
	ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Course, error)
	Upsert(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (cr *courseRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	var result types.Course
	if err := cr.conn(tx).WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

func (cr *courseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Course, error) {
	var results []*types.Course
	if len(ids) == 0 {
		return results, nil
	}
	if err := cr.conn(tx).WithContext(ctx).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, translate(err)
	}
	return results, nil
}

func (cr *courseRepo) ListByOwner(ctx context.Context, tx *gorm.DB, teacherUsername string) ([]*types.Course, error) {
	var results []*types.Course
	if err := cr.conn(tx).WithContext(ctx).
		Where("teacher_username = ?", teacherUsername).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, translate(err)
	}
	return results, nil
}

func (cr *courseRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	var results []*types.Course
	if err := cr.conn(tx).WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, translate(err)
	}
	return results, nil
}

func (cr *courseRepo) Upsert(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error) {
	if course == nil {
		return nil, fmt.Errorf("course required")
	}
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	if err := cr.conn(tx).WithContext(ctx).Save(course).Error; err != nil {
		return nil, translate(err)
	}
	return course, nil
}
