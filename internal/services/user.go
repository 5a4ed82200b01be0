package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aulahub/aulahub-backend/internal/platform/localmedia"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/repos"
	"github.com/aulahub/aulahub-backend/internal/types"
)

type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// UserService owns profile reads and updates. Every read path returns a
// sanitized record: password and salt never leave this layer, no matter
// who asks.
type UserService interface {
	GetProfile(ctx context.Context, username string) (types.User, error)
	UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (types.User, error)
	UpdateAvatar(ctx context.Context, username, filename string, data []byte) (types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	uploader localmedia.Uploader
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, uploader localmedia.Uploader) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (us *userService) GetProfile(ctx context.Context, username string) (types.User, error) {
	user, err := us.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return types.User{}, err
	}
	return user.Sanitized(), nil
}

// UpdateProfile mutates display fields only. Username is the identity and
// never changes; secrets are untouchable through this path.
func (us *userService) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (types.User, error) {
	user, err := us.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return types.User{}, err
	}
	if update.FirstName != nil {
		user.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		user.LastName = strings.TrimSpace(*update.LastName)
	}
	updated, err := us.userRepo.Upsert(ctx, nil, user)
	if err != nil {
		return types.User{}, err
	}
	return updated.Sanitized(), nil
}

func (us *userService) UpdateAvatar(ctx context.Context, username, filename string, data []byte) (types.User, error) {
	if us.uploader == nil {
		return types.User{}, fmt.Errorf("uploader not configured")
	}
	user, err := us.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return types.User{}, err
	}
	url, err := us.uploader.Upload(ctx, filename, data)
	if err != nil {
		return types.User{}, fmt.Errorf("upload avatar: %w", err)
	}
	user.AvatarURL = url
	updated, err := us.userRepo.Upsert(ctx, nil, user)
	if err != nil {
		return types.User{}, err
	}
	return updated.Sanitized(), nil
}
