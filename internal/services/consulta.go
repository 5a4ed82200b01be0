package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aulahub/aulahub-backend/internal/graph"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/realtime"
	"github.com/aulahub/aulahub-backend/internal/repos"
)

// ConsultaService coordinates question threads, which live entirely in the
// graph store. Deletion goes through the store's ownership-gated cascade:
// only the identity holding the AUTHORED edge may delete, and the whole
// answer subtree goes with it atomically.
type ConsultaService interface {
	Create(ctx context.Context, author string, courseID uuid.UUID, text string) (*graph.Consulta, error)
	Answer(ctx context.Context, author, consultaID, text string) (*graph.Respuesta, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*graph.Consulta, error)
	ListAnswers(ctx context.Context, consultaID string) ([]*graph.Respuesta, error)
	Delete(ctx context.Context, requester, consultaID string) error
}

type consultaService struct {
	log        *logger.Logger
	courseRepo repos.CourseRepo
	graphStore graph.Store
	notifier   Notifier
}

func NewConsultaService(
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	graphStore graph.Store,
	notifier Notifier,
) ConsultaService {
	return &consultaService{
		log:        log.With("service", "ConsultaService"),
		courseRepo: courseRepo,
		graphStore: graphStore,
		notifier:   notifier,
	}
}

func (qs *consultaService) Create(ctx context.Context, author string, courseID uuid.UUID, text string) (*graph.Consulta, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("consulta text required")
	}
	// The course id crosses into the graph store; confirm it resolves
	// first, the graph has no way to.
	if _, err := qs.courseRepo.GetByID(ctx, nil, courseID); err != nil {
		return nil, err
	}

	consulta := &graph.Consulta{
		ID:        uuid.New().String(),
		CourseID:  courseID.String(),
		Author:    author,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := qs.graphStore.CreateConsulta(ctx, consulta); err != nil {
		return nil, err
	}
	return consulta, nil
}

func (qs *consultaService) Answer(ctx context.Context, author, consultaID, text string) (*graph.Respuesta, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("respuesta text required")
	}
	consulta, err := qs.graphStore.GetConsulta(ctx, consultaID)
	if err != nil {
		return nil, err
	}
	respuesta := &graph.Respuesta{
		ID:        uuid.New().String(),
		Author:    author,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := qs.graphStore.CreateRespuesta(ctx, consultaID, respuesta); err != nil {
		return nil, err
	}

	// Tell the thread author someone answered.
	qs.notifier.Notify(ctx, consulta.Author, realtime.EventConsultaAnswered, map[string]any{
		"consulta_id":  consultaID,
		"respuesta_id": respuesta.ID,
		"author":       author,
	})
	return respuesta, nil
}

func (qs *consultaService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*graph.Consulta, error) {
	if _, err := qs.courseRepo.GetByID(ctx, nil, courseID); err != nil {
		return nil, err
	}
	return qs.graphStore.ListConsultasByCourse(ctx, courseID.String())
}

func (qs *consultaService) ListAnswers(ctx context.Context, consultaID string) ([]*graph.Respuesta, error) {
	return qs.graphStore.ListRespuestas(ctx, consultaID)
}

// Delete runs the ownership-gated cascade. Success means the node and its
// whole answer subtree are gone; a repeat delete sees ErrNotFound and a
// non-author sees ErrForbidden with nothing mutated.
func (qs *consultaService) Delete(ctx context.Context, requester, consultaID string) error {
	if err := qs.graphStore.DeleteOwnedCascade(ctx, consultaID, requester); err != nil {
		return err
	}
	// Only the author can reach this point, so the author's channel is
	// the thread channel.
	qs.notifier.Notify(ctx, requester, realtime.EventConsultaRemoved, map[string]any{
		"consulta_id": consultaID,
	})
	return nil
}
