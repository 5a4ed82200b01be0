package services

import (
	"context"
	"fmt"

	"github.com/aulahub/aulahub-backend/internal/graph"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/realtime"
	"github.com/aulahub/aulahub-backend/internal/repos"
	"github.com/aulahub/aulahub-backend/internal/types"
)

// SocialService manages friendship edges. Friendship is symmetric, stored
// as one edge in each direction so traversal stays a single hop.
type SocialService interface {
	AddFriend(ctx context.Context, username, friendUsername string) error
	RemoveFriend(ctx context.Context, username, friendUsername string) error
	ListFriends(ctx context.Context, username string) ([]types.User, error)
}

type socialService struct {
	log        *logger.Logger
	userRepo   repos.UserRepo
	graphStore graph.Store
	guard      *edgeGuard
	notifier   Notifier
}

func NewSocialService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	graphStore graph.Store,
	notifier Notifier,
) SocialService {
	return &socialService{
		log:        log.With("service", "SocialService"),
		userRepo:   userRepo,
		graphStore: graphStore,
		guard:      newEdgeGuard(userRepo, courseRepo, graphStore),
		notifier:   notifier,
	}
}

func (ss *socialService) AddFriend(ctx context.Context, username, friendUsername string) error {
	if username == friendUsername {
		return fmt.Errorf("cannot befriend yourself")
	}
	if err := ss.guard.createCheckedEdge(ctx, graph.EdgeFriends, username, friendUsername); err != nil {
		return err
	}
	if err := ss.guard.createCheckedEdge(ctx, graph.EdgeFriends, friendUsername, username); err != nil {
		return err
	}
	ss.notifier.Notify(ctx, friendUsername, realtime.EventFriendAdded, map[string]any{
		"username": username,
	})
	return nil
}

func (ss *socialService) RemoveFriend(ctx context.Context, username, friendUsername string) error {
	if err := ss.graphStore.DeleteEdge(ctx, graph.EdgeFriends, username, friendUsername); err != nil {
		return err
	}
	// The reverse edge may already be gone if a previous removal was cut
	// short; that is fine.
	if err := ss.graphStore.DeleteEdge(ctx, graph.EdgeFriends, friendUsername, username); err != nil {
		ss.log.Debug("Reverse friendship edge already absent", "error", err)
	}
	return nil
}

func (ss *socialService) ListFriends(ctx context.Context, username string) ([]types.User, error) {
	usernames, err := ss.graphStore.Traverse(ctx, username, graph.EdgeFriends)
	if err != nil {
		return nil, err
	}
	friends := make([]types.User, 0, len(usernames))
	for _, friend := range usernames {
		user, uerr := ss.userRepo.GetByUsername(ctx, nil, friend)
		if uerr != nil {
			ss.log.Warn("Friend edge points at missing user", "friend", friend)
			continue
		}
		friends = append(friends, user.Sanitized())
	}
	return friends, nil
}
