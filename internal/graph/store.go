// Package graph is the adapter over the relationship store. Edges address
// nodes by the same identifiers the canonical store uses; the store itself
// enforces no referential integrity, so callers confirm canonical records
// exist before creating edges (see the coordinator services).
package graph

import "context"

// Store is the graph-store contract the coordinator depends on. The Neo4j
// implementation lives in this package; tests substitute an in-memory fake.
type Store interface {
	// CreateEdge merges the edge (and both endpoint nodes), so repeated
	// calls for the same triple leave exactly one edge.
	CreateEdge(ctx context.Context, kind EdgeKind, fromID, toID string) error
	// DeleteEdge removes the edge, returning apperr.ErrNotFound when no
	// such edge exists.
	DeleteEdge(ctx context.Context, kind EdgeKind, fromID, toID string) error
	EdgeExists(ctx context.Context, kind EdgeKind, fromID, toID string) (bool, error)
	// Traverse returns the ids of all nodes reachable from fromID over one
	// hop of kind.
	Traverse(ctx context.Context, fromID string, kind EdgeKind) ([]string, error)
	// DeleteNodeCascade removes a node, its answer subtree, and every
	// incident edge.
	DeleteNodeCascade(ctx context.Context, nodeID string) error

	// CreateConsulta writes the consulta node plus its AUTHORED and ABOUT
	// edges in one transaction.
	CreateConsulta(ctx context.Context, c *Consulta) error
	// CreateRespuesta attaches an answer to an existing consulta,
	// returning apperr.ErrNotFound when the consulta is gone.
	CreateRespuesta(ctx context.Context, consultaID string, r *Respuesta) error
	// GetConsulta resolves one consulta node, apperr.ErrNotFound if absent.
	GetConsulta(ctx context.Context, consultaID string) (*Consulta, error)
	ListConsultasByCourse(ctx context.Context, courseID string) ([]*Consulta, error)
	ListRespuestas(ctx context.Context, consultaID string) ([]*Respuesta, error)

	// DeleteOwnedCascade is the ownership-gated deletion protocol: inside
	// a single write transaction it confirms requester -[AUTHORED]->
	// resource, then detach-deletes the resource and its full HAS_ANSWER
	// subtree. apperr.ErrForbidden when the node exists without the
	// authorship edge, apperr.ErrNotFound when the node is already gone,
	// and in both cases nothing is mutated. A racing duplicate delete
	// observes ErrNotFound cleanly.
	DeleteOwnedCascade(ctx context.Context, resourceID, requesterID string) error
}
