package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/aulahub/aulahub-backend/internal/platform/apperr"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/platform/neo4jdb"
)

type neo4jStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jStore(client *neo4jdb.Client, baseLog *logger.Logger) Store {
	return &neo4jStore{
		client: client,
		log:    baseLog.With("store", "Neo4jGraphStore"),
	}
}

// EnsureSchema installs uniqueness constraints on the id property of every
// node label. Safe to run on every boot.
func EnsureSchema(ctx context.Context, client *neo4jdb.Client) error {
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	for _, label := range []string{"User", "Course", "Consulta", "Respuesta"} {
		stmt := fmt.Sprintf(`CREATE CONSTRAINT %s_id_unique IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE`, label, label)
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return fmt.Errorf("%w: ensure %s constraint: %v", apperr.ErrUpstream, label, err)
		}
		if _, err := res.Consume(ctx); err != nil {
			return fmt.Errorf("%w: ensure %s constraint: %v", apperr.ErrUpstream, label, err)
		}
	}
	return nil
}

func (s *neo4jStore) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
}

func (s *neo4jStore) readSession(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.client.Database,
	})
}

func (s *neo4jStore) CreateEdge(ctx context.Context, kind EdgeKind, fromID, toID string) error {
	spec, ok := edgeSpecs[kind]
	if !ok {
		return fmt.Errorf("unknown edge kind %q", kind)
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
MERGE (a:%s {id: $from_id})
MERGE (b:%s {id: $to_id})
MERGE (a)-[:%s]->(b)
`, spec.fromLabel, spec.toLabel, kind)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"from_id": fromID, "to_id": toID})
		if err != nil {
			return nil, err
		}
		return nil, consume(ctx, res)
	})
	if err != nil {
		return fmt.Errorf("%w: create %s edge: %v", apperr.ErrUpstream, kind, err)
	}
	return nil
}

func (s *neo4jStore) DeleteEdge(ctx context.Context, kind EdgeKind, fromID, toID string) error {
	spec, ok := edgeSpecs[kind]
	if !ok {
		return fmt.Errorf("unknown edge kind %q", kind)
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
MATCH (a:%s {id: $from_id})-[r:%s]->(b:%s {id: $to_id})
DELETE r
`, spec.fromLabel, kind, spec.toLabel)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"from_id": fromID, "to_id": toID})
		if err != nil {
			return 0, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return 0, err
		}
		return summary.Counters().RelationshipsDeleted(), nil
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s edge: %v", apperr.ErrUpstream, kind, err)
	}
	if deleted.(int) == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *neo4jStore) EdgeExists(ctx context.Context, kind EdgeKind, fromID, toID string) (bool, error) {
	spec, ok := edgeSpecs[kind]
	if !ok {
		return false, fmt.Errorf("unknown edge kind %q", kind)
	}
	session := s.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
MATCH (a:%s {id: $from_id})-[r:%s]->(b:%s {id: $to_id})
RETURN count(r) > 0 AS present
`, spec.fromLabel, kind, spec.toLabel)

	present, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"from_id": fromID, "to_id": toID})
		if err != nil {
			return false, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return false, err
		}
		v, _ := record.Get("present")
		b, _ := v.(bool)
		return b, nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: %s edge exists: %v", apperr.ErrUpstream, kind, err)
	}
	return present.(bool), nil
}

func (s *neo4jStore) Traverse(ctx context.Context, fromID string, kind EdgeKind) ([]string, error) {
	spec, ok := edgeSpecs[kind]
	if !ok {
		return nil, fmt.Errorf("unknown edge kind %q", kind)
	}
	session := s.readSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
MATCH (a:%s {id: $from_id})-[:%s]->(b:%s)
RETURN b.id AS id
`, spec.fromLabel, kind, spec.toLabel)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"from_id": fromID})
		if err != nil {
			return nil, err
		}
		var ids []string
		for res.Next(ctx) {
			if v, ok := res.Record().Get("id"); ok {
				if id, ok := v.(string); ok {
					ids = append(ids, id)
				}
			}
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: traverse %s: %v", apperr.ErrUpstream, kind, err)
	}
	return out.([]string), nil
}

func (s *neo4jStore) DeleteNodeCascade(ctx context.Context, nodeID string) error {
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (n {id: $id})
OPTIONAL MATCH (n)-[:HAS_ANSWER]->(ans)
DETACH DELETE n, ans
`, map[string]any{"id": nodeID})
		if err != nil {
			return nil, err
		}
		return nil, consume(ctx, res)
	})
	if err != nil {
		return fmt.Errorf("%w: delete node cascade: %v", apperr.ErrUpstream, err)
	}
	return nil
}

func (s *neo4jStore) CreateConsulta(ctx context.Context, c *Consulta) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("consulta with id required")
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MERGE (u:User {id: $author})
MERGE (course:Course {id: $course_id})
CREATE (q:Consulta {id: $id, course_id: $course_id, author: $author, text: $text, created_at: $created_at})
CREATE (u)-[:AUTHORED]->(q)
CREATE (q)-[:ABOUT]->(course)
`, map[string]any{
			"id":         c.ID,
			"course_id":  c.CourseID,
			"author":     c.Author,
			"text":       c.Text,
			"created_at": c.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		return nil, consume(ctx, res)
	})
	if err != nil {
		return fmt.Errorf("%w: create consulta: %v", apperr.ErrUpstream, err)
	}
	return nil
}

func (s *neo4jStore) CreateRespuesta(ctx context.Context, consultaID string, r *Respuesta) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("respuesta with id required")
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (q:Consulta {id: $consulta_id})
CREATE (a:Respuesta {id: $id, author: $author, text: $text, created_at: $created_at})
CREATE (q)-[:HAS_ANSWER]->(a)
`, map[string]any{
			"consulta_id": consultaID,
			"id":          r.ID,
			"author":      r.Author,
			"text":        r.Text,
			"created_at":  r.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return 0, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return 0, err
		}
		return summary.Counters().NodesCreated(), nil
	})
	if err != nil {
		return fmt.Errorf("%w: create respuesta: %v", apperr.ErrUpstream, err)
	}
	// MATCH found no consulta; nothing was created.
	if created.(int) == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *neo4jStore) GetConsulta(ctx context.Context, consultaID string) (*Consulta, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (q:Consulta {id: $id})
RETURN q.id AS id, q.course_id AS course_id, q.author AS author, q.text AS text, q.created_at AS created_at
`, map[string]any{"id": consultaID})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, apperr.ErrNotFound
		}
		return &Consulta{
			ID:        stringField(record, "id"),
			CourseID:  stringField(record, "course_id"),
			Author:    stringField(record, "author"),
			Text:      stringField(record, "text"),
			CreatedAt: timeField(record, "created_at"),
		}, nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get consulta: %v", apperr.ErrUpstream, err)
	}
	return out.(*Consulta), nil
}

func (s *neo4jStore) ListConsultasByCourse(ctx context.Context, courseID string) ([]*Consulta, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (q:Consulta)-[:ABOUT]->(:Course {id: $course_id})
RETURN q.id AS id, q.course_id AS course_id, q.author AS author, q.text AS text, q.created_at AS created_at
ORDER BY q.created_at ASC
`, map[string]any{"course_id": courseID})
		if err != nil {
			return nil, err
		}
		var rows []*Consulta
		for res.Next(ctx) {
			rec := res.Record()
			rows = append(rows, &Consulta{
				ID:        stringField(rec, "id"),
				CourseID:  stringField(rec, "course_id"),
				Author:    stringField(rec, "author"),
				Text:      stringField(rec, "text"),
				CreatedAt: timeField(rec, "created_at"),
			})
		}
		return rows, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list consultas: %v", apperr.ErrUpstream, err)
	}
	return out.([]*Consulta), nil
}

func (s *neo4jStore) ListRespuestas(ctx context.Context, consultaID string) ([]*Respuesta, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (:Consulta {id: $consulta_id})-[:HAS_ANSWER]->(a:Respuesta)
RETURN a.id AS id, a.author AS author, a.text AS text, a.created_at AS created_at
ORDER BY a.created_at ASC
`, map[string]any{"consulta_id": consultaID})
		if err != nil {
			return nil, err
		}
		var rows []*Respuesta
		for res.Next(ctx) {
			rec := res.Record()
			rows = append(rows, &Respuesta{
				ID:        stringField(rec, "id"),
				Author:    stringField(rec, "author"),
				Text:      stringField(rec, "text"),
				CreatedAt: timeField(rec, "created_at"),
			})
		}
		return rows, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list respuestas: %v", apperr.ErrUpstream, err)
	}
	return out.([]*Respuesta), nil
}

// DeleteOwnedCascade runs the check and the cascade inside one managed
// write transaction. The authorship probe does no writes, so a failed gate
// leaves the graph untouched; the cascade re-matches the node and reports
// via deletion counters, so a concurrent delete that got there first
// surfaces as ErrNotFound rather than a double delete.
func (s *neo4jStore) DeleteOwnedCascade(ctx context.Context, resourceID, requesterID string) error {
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		probe, err := tx.Run(ctx, `
MATCH (n:Consulta {id: $id})
OPTIONAL MATCH (:User {id: $requester})-[owns:AUTHORED]->(n)
RETURN owns IS NOT NULL AS owned
`, map[string]any{"id": resourceID, "requester": requesterID})
		if err != nil {
			return nil, err
		}
		record, err := probe.Single(ctx)
		if err != nil {
			// No row: the node does not exist.
			return nil, apperr.ErrNotFound
		}
		ownedVal, _ := record.Get("owned")
		if owned, _ := ownedVal.(bool); !owned {
			return nil, apperr.ErrForbidden
		}

		res, err := tx.Run(ctx, `
MATCH (n:Consulta {id: $id})
OPTIONAL MATCH (n)-[:HAS_ANSWER]->(ans:Respuesta)
DETACH DELETE n, ans
`, map[string]any{"id": resourceID})
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		if summary.Counters().NodesDeleted() == 0 {
			return nil, apperr.ErrNotFound
		}
		return nil, nil
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrForbidden) {
		return err
	}
	return fmt.Errorf("%w: delete owned cascade: %v", apperr.ErrUpstream, err)
}

func consume(ctx context.Context, res neo4j.ResultWithContext) error {
	_, err := res.Consume(ctx)
	return err
}

func stringField(rec *neo4j.Record, key string) string {
	if v, ok := rec.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func timeField(rec *neo4j.Record, key string) time.Time {
	if v, ok := rec.Get(key); ok {
		if s, ok := v.(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
