package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aulahub/aulahub-backend/internal/graph"
	"github.com/aulahub/aulahub-backend/internal/platform/apperr"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/realtime"
	"github.com/aulahub/aulahub-backend/internal/types"
)

func testLogger() *logger.Logger {
	log, err := logger.New("dev")
	if err != nil {
		panic(err)
	}
	return log
}

// fakeUserRepo keeps users keyed by username.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*types.User
}

func newFakeUserRepo(users ...*types.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*types.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.Username] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, _ *gorm.DB, username string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByRole(_ context.Context, _ *gorm.DB, role string) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.User
	for _, u := range r.users {
		if u.Role == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Upsert(_ context.Context, _ *gorm.DB, user *types.User) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[user.Username]; ok && existing.ID != user.ID && user.ID == uuid.Nil {
		return nil, apperr.ErrConflict
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.Username] = &copied
	return user, nil
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, _ *gorm.DB, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[username]
	return ok, nil
}

// fakeCourseRepo keeps courses keyed by id.
type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[uuid.UUID]*types.Course

	listCalls int
	failList  bool
}

func newFakeCourseRepo(courses ...*types.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: make(map[uuid.UUID]*types.Course)}
	for _, c := range courses {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.courses[c.ID] = c
	}
	return r
}

func (r *fakeCourseRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCourseRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Course
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) ListByOwner(_ context.Context, _ *gorm.DB, teacherUsername string) ([]*types.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Course
	for _, c := range r.courses {
		if c.TeacherUsername == teacherUsername {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) ListPublished(_ context.Context, _ *gorm.DB) ([]*types.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.failList {
		return nil, fmt.Errorf("%w: canonical store down", apperr.ErrUpstream)
	}
	var out []*types.Course
	for _, c := range r.courses {
		if c.Published {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) Upsert(_ context.Context, _ *gorm.DB, course *types.Course) (*types.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	copied := *course
	r.courses[course.ID] = &copied
	return course, nil
}

// fakeTestRepo keeps tests keyed by id.
type fakeTestRepo struct {
	mu    sync.Mutex
	tests map[uuid.UUID]*types.Test
}

func newFakeTestRepo() *fakeTestRepo {
	return &fakeTestRepo{tests: make(map[uuid.UUID]*types.Test)}
}

func (r *fakeTestRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tst, ok := r.tests[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *tst
	return &copied, nil
}

func (r *fakeTestRepo) ListByCourse(_ context.Context, _ *gorm.DB, courseID uuid.UUID) ([]*types.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Test
	for _, tst := range r.tests {
		if tst.CourseID == courseID {
			copied := *tst
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTestRepo) Upsert(_ context.Context, _ *gorm.DB, test *types.Test) (*types.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if test.ID == uuid.Nil {
		test.ID = uuid.New()
	}
	copied := *test
	r.tests[test.ID] = &copied
	return test, nil
}

func (r *fakeTestRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tests[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.tests, id)
	return nil
}

type edgeKey struct {
	kind graph.EdgeKind
	from string
	to   string
}

// fakeGraphStore is an in-memory stand-in for the relationship store with
// the same error contract as the real adapter.
type fakeGraphStore struct {
	mu        sync.Mutex
	edges     map[edgeKey]bool
	consultas map[string]*graph.Consulta
	answers   map[string][]*graph.Respuesta
}

func newFakeGraphStore() *fakeGraphStore {
	return &fakeGraphStore{
		edges:     make(map[edgeKey]bool),
		consultas: make(map[string]*graph.Consulta),
		answers:   make(map[string][]*graph.Respuesta),
	}
}

func (g *fakeGraphStore) CreateEdge(_ context.Context, kind graph.EdgeKind, fromID, toID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[edgeKey{kind, fromID, toID}] = true
	return nil
}

func (g *fakeGraphStore) DeleteEdge(_ context.Context, kind graph.EdgeKind, fromID, toID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := edgeKey{kind, fromID, toID}
	if !g.edges[key] {
		return apperr.ErrNotFound
	}
	delete(g.edges, key)
	return nil
}

func (g *fakeGraphStore) EdgeExists(_ context.Context, kind graph.EdgeKind, fromID, toID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edges[edgeKey{kind, fromID, toID}], nil
}

func (g *fakeGraphStore) Traverse(_ context.Context, fromID string, kind graph.EdgeKind) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for key := range g.edges {
		if key.kind == kind && key.from == fromID {
			out = append(out, key.to)
		}
	}
	return out, nil
}

func (g *fakeGraphStore) DeleteNodeCascade(_ context.Context, nodeID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeConsultaLocked(nodeID)
	return nil
}

func (g *fakeGraphStore) CreateConsulta(_ context.Context, c *graph.Consulta) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	copied := *c
	g.consultas[c.ID] = &copied
	g.edges[edgeKey{graph.EdgeAuthored, c.Author, c.ID}] = true
	g.edges[edgeKey{graph.EdgeAbout, c.ID, c.CourseID}] = true
	return nil
}

func (g *fakeGraphStore) CreateRespuesta(_ context.Context, consultaID string, r *graph.Respuesta) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.consultas[consultaID]; !ok {
		return apperr.ErrNotFound
	}
	copied := *r
	g.answers[consultaID] = append(g.answers[consultaID], &copied)
	g.edges[edgeKey{graph.EdgeHasAnswer, consultaID, r.ID}] = true
	return nil
}

func (g *fakeGraphStore) GetConsulta(_ context.Context, consultaID string) (*graph.Consulta, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.consultas[consultaID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (g *fakeGraphStore) ListConsultasByCourse(_ context.Context, courseID string) ([]*graph.Consulta, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*graph.Consulta
	for _, c := range g.consultas {
		if c.CourseID == courseID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (g *fakeGraphStore) ListRespuestas(_ context.Context, consultaID string) ([]*graph.Respuesta, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*graph.Respuesta
	for _, r := range g.answers[consultaID] {
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

func (g *fakeGraphStore) DeleteOwnedCascade(_ context.Context, resourceID, requesterID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.consultas[resourceID]; !ok {
		return apperr.ErrNotFound
	}
	if !g.edges[edgeKey{graph.EdgeAuthored, requesterID, resourceID}] {
		return apperr.ErrForbidden
	}
	g.removeConsultaLocked(resourceID)
	return nil
}

func (g *fakeGraphStore) removeConsultaLocked(consultaID string) {
	delete(g.consultas, consultaID)
	delete(g.answers, consultaID)
	for key := range g.edges {
		if key.from == consultaID || key.to == consultaID {
			delete(g.edges, key)
		}
	}
}

type sentEvent struct {
	Username string
	Event    realtime.Event
	Data     any
}

// recordingNotifier captures fanout calls for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (n *recordingNotifier) Notify(_ context.Context, username string, event realtime.Event, data any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEvent{Username: username, Event: event, Data: data})
}

func (n *recordingNotifier) events() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]sentEvent, len(n.sent))
	copy(out, n.sent)
	return out
}
