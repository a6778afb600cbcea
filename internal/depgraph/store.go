package depgraph

import "context"

// EdgeStore is the narrow persistence interface the engine drives. Backends
// must enforce edge identity uniqueness and the (dependent, prerequisite)
// pair uniqueness; all graph-shape validation stays in the engine.
//
// Implementations live in internal/depstore: an in-memory store for tests
// and small deployments, and a SQLite store for durable single-file
// deployments.
type EdgeStore interface {
	// InsertEdge persists a new edge. Returns an error matching
	// errors.ErrDuplicateEdge if the (dependent, prerequisite) pair
	// already exists.
	InsertEdge(ctx context.Context, edge Edge) error

	// DeleteEdge removes an edge by ID. Returns an error matching
	// errors.ErrEdgeNotFound if absent.
	DeleteEdge(ctx context.Context, edgeID string) error

	// EdgeByID returns the edge with the given ID, or an error matching
	// errors.ErrEdgeNotFound.
	EdgeByID(ctx context.Context, edgeID string) (*Edge, error)

	// EdgesForTask returns the task's edges in both directions.
	EdgesForTask(ctx context.Context, taskID string) (*TaskEdges, error)

	// EdgesForPlan returns every edge whose endpoints belong to the plan.
	// Used to build the adjacency list for cycle checks and plan views.
	EdgesForPlan(ctx context.Context, planID string) ([]Edge, error)

	// DeleteEdgesForTask removes all edges where the task is either
	// endpoint and returns how many were removed. Used for cascade
	// cleanup when the task collaborator deletes a task.
	DeleteEdgesForTask(ctx context.Context, taskID string) (int, error)

	// WithPlanLock runs fn while holding an exclusive per-plan lock,
	// serializing the validate-then-write sequence against concurrent
	// mutations of the same plan. Locks for different plans do not
	// contend.
	WithPlanLock(ctx context.Context, planID string, fn func(ctx context.Context) error) error
}
