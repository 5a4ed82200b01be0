package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aulahub/aulahub-backend/internal/graph"
	"github.com/aulahub/aulahub-backend/internal/repos"
)

// edgeGuard is the single funnel for edge creation. The graph store has no
// foreign keys, so cross-store referential integrity is an invariant held
// here: an edge is only written after every canonical record it references
// has been confirmed to exist.
type edgeGuard struct {
	userRepo   repos.UserRepo
	courseRepo repos.CourseRepo
	graphStore graph.Store
}

func newEdgeGuard(userRepo repos.UserRepo, courseRepo repos.CourseRepo, graphStore graph.Store) *edgeGuard {
	return &edgeGuard{userRepo: userRepo, courseRepo: courseRepo, graphStore: graphStore}
}

func (g *edgeGuard) createCheckedEdge(ctx context.Context, kind graph.EdgeKind, fromID, toID string) error {
	var err error
	switch kind {
	case graph.EdgeEnrolled:
		err = g.checkUser(ctx, fromID)
		if err == nil {
			err = g.checkCourse(ctx, toID)
		}
	case graph.EdgeFriends:
		err = g.checkUser(ctx, fromID)
		if err == nil {
			err = g.checkUser(ctx, toID)
		}
	case graph.EdgeAuthored, graph.EdgeHasAnswer, graph.EdgeAbout:
		// Endpoints are graph-native nodes created alongside the edge;
		// the consulta flows validate the canonical references themselves.
	default:
		return fmt.Errorf("unknown edge kind %q", kind)
	}
	if err != nil {
		return err
	}
	return g.graphStore.CreateEdge(ctx, kind, fromID, toID)
}

func (g *edgeGuard) checkUser(ctx context.Context, username string) error {
	_, err := g.userRepo.GetByUsername(ctx, nil, username)
	return err
}

func (g *edgeGuard) checkCourse(ctx context.Context, courseID string) error {
	id, err := uuid.Parse(courseID)
	if err != nil {
		return fmt.Errorf("bad course id %q: %w", courseID, err)
	}
	_, err = g.courseRepo.GetByID(ctx, nil, id)
	return err
}
