package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aulahub/aulahub-backend/internal/platform/apperr"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/types"
)

type UserRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error)
	FindByRole(ctx context.Context, tx *gorm.DB, role string) ([]*types.User, error)
	Upsert(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)
	UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ur.db
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	var result types.User
	err := ur.conn(tx).WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

func (ur *userRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error) {
	var result types.User
	err := ur.conn(tx).WithContext(ctx).Where("username = ?", username).First(&result).Error
	if err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

func (ur *userRepo) FindByRole(ctx context.Context, tx *gorm.DB, role string) ([]*types.User, error) {
	var results []*types.User
	if err := ur.conn(tx).WithContext(ctx).Where("role = ?", role).Find(&results).Error; err != nil {
		return nil, translate(err)
	}
	return results, nil
}

// Upsert writes the whole record in one statement; a concurrent reader sees
// either the old row or the new row, never a partial write. Identifiers are
// immutable: a zero ID means insert, a set ID means update of that row.
func (ur *userRepo) Upsert(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	if user == nil {
		return nil, fmt.Errorf("user required")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := ur.conn(tx).WithContext(ctx).Save(user).Error; err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (ur *userRepo) UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	var count int64
	err := ur.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// translate maps gorm errors onto the shared taxonomy. Conflict is
// non-retryable for the caller without changing the conflicting field.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrConflict
	default:
		return fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
}
