package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/types"
)

type TestRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Test, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Test, error)
	Upsert(ctx context.Context, tx *gorm.DB, test *types.Test) (*types.Test, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type testRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestRepo(db *gorm.DB, baseLog *logger.Logger) TestRepo {
	return &testRepo{db: db, log: baseLog.With("repo", "TestRepo")}
}

func (tr *testRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return tr.db
}

func (tr *testRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Test, error) {
	var result types.Test
	if err := tr.conn(tx).WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

func (tr *testRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Test, error) {
	var results []*types.Test
	if err := tr.conn(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("held_at ASC").
		Find(&results).Error; err != nil {
		return nil, translate(err)
	}
	return results, nil
}

func (tr *testRepo) Upsert(ctx context.Context, tx *gorm.DB, test *types.Test) (*types.Test, error) {
	if test == nil {
		return nil, fmt.Errorf("test required")
	}
	if test.ID == uuid.Nil {
		test.ID = uuid.New()
	}
	if err := tr.conn(tx).WithContext(ctx).Save(test).Error; err != nil {
		return nil, translate(err)
	}
	return test, nil
}

func (tr *testRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := tr.conn(tx).WithContext(ctx).Delete(&types.Test{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
