package depstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/launchmap/launchmap/internal/depgraph"
	"github.com/launchmap/launchmap/internal/errors"
)

// schema is applied on open. The unique index on the
// (dependent, prerequisite) pair is the cross-process backstop for the
// duplicate-edge invariant; the acyclicity invariant is enforced by the
// engine under the plan lock.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id      TEXT PRIMARY KEY,
	plan_id TEXT NOT NULL,
	status  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_plan ON tasks(plan_id);

CREATE TABLE IF NOT EXISTS dependency_edges (
	id              TEXT PRIMARY KEY,
	dependent_id    TEXT NOT NULL REFERENCES tasks(id),
	prerequisite_id TEXT NOT NULL REFERENCES tasks(id),
	created_at      TIMESTAMP NOT NULL,
	UNIQUE(dependent_id, prerequisite_id)
);
CREATE INDEX IF NOT EXISTS idx_edges_dependent ON dependency_edges(dependent_id);
CREATE INDEX IF NOT EXISTS idx_edges_prerequisite ON dependency_edges(prerequisite_id);

CREATE TABLE IF NOT EXISTS plan_members (
	plan_id      TEXT NOT NULL,
	principal_id TEXT NOT NULL,
	PRIMARY KEY (plan_id, principal_id)
);
`

// SQLite is a single-file relational store for edges, tasks, and plan
// membership. Plan mutations are serialized through per-plan mutexes, so
// a single process must own the file for writes; the unique constraint on
// edge pairs is the backstop if that discipline is violated.
type SQLite struct {
	db *sql.DB

	lockMu    sync.Mutex
	planLocks map[string]*sync.Mutex
}

// OpenSQLite opens (creating if needed) the store at path and applies the
// schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{
		db:        db,
		planLocks: make(map[string]*sync.Mutex),
	}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// -----------------------------------------------------------------------------
// EdgeStore
// -----------------------------------------------------------------------------

// InsertEdge persists a new edge, rejecting duplicate pairs.
func (s *SQLite) InsertEdge(ctx context.Context, edge depgraph.Edge) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dependency_edges (id, dependent_id, prerequisite_id, created_at) VALUES (?, ?, ?, ?)`,
		edge.ID, edge.DependentID, edge.PrerequisiteID, edge.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewDependencyError("cannot insert edge", errors.ErrDuplicateEdge).
				WithEdge(edge.DependentID, edge.PrerequisiteID)
		}
		return fmt.Errorf("insert edge: %w", err)
	}
	return nil
}

// DeleteEdge removes an edge by ID.
func (s *SQLite) DeleteEdge(ctx context.Context, edgeID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dependency_edges WHERE id = ?`, edgeID)
	if err != nil {
		return fmt.Errorf("delete edge: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete edge: %w", err)
	}
	if affected == 0 {
		return errors.NewNotFoundError("dependency", edgeID)
	}
	return nil
}

// EdgeByID returns the edge with the given ID.
func (s *SQLite) EdgeByID(ctx context.Context, edgeID string) (*depgraph.Edge, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, dependent_id, prerequisite_id, created_at FROM dependency_edges WHERE id = ?`, edgeID)

	var edge depgraph.Edge
	if err := row.Scan(&edge.ID, &edge.DependentID, &edge.PrerequisiteID, &edge.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("dependency", edgeID)
		}
		return nil, fmt.Errorf("query edge: %w", err)
	}
	return &edge, nil
}

// EdgesForTask returns the task's edges in both directions.
func (s *SQLite) EdgesForTask(ctx context.Context, taskID string) (*depgraph.TaskEdges, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dependent_id, prerequisite_id, created_at FROM dependency_edges
		 WHERE dependent_id = ? OR prerequisite_id = ?`, taskID, taskID)
	if err != nil {
		return nil, fmt.Errorf("query task edges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	te := &depgraph.TaskEdges{AsDependent: []depgraph.Edge{}, AsPrerequisite: []depgraph.Edge{}}
	for rows.Next() {
		var edge depgraph.Edge
		if err := rows.Scan(&edge.ID, &edge.DependentID, &edge.PrerequisiteID, &edge.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		if edge.DependentID == taskID {
			te.AsDependent = append(te.AsDependent, edge)
		}
		if edge.PrerequisiteID == taskID {
			te.AsPrerequisite = append(te.AsPrerequisite, edge)
		}
	}
	return te, rows.Err()
}

// EdgesForPlan returns every edge whose endpoints belong to the plan.
// Both endpoints share a plan by invariant, so the join on the dependent
// side is sufficient.
func (s *SQLite) EdgesForPlan(ctx context.Context, planID string) ([]depgraph.Edge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.dependent_id, e.prerequisite_id, e.created_at
		 FROM dependency_edges e
		 JOIN tasks t ON t.id = e.dependent_id
		 WHERE t.plan_id = ?`, planID)
	if err != nil {
		return nil, fmt.Errorf("query plan edges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var edges []depgraph.Edge
	for rows.Next() {
		var edge depgraph.Edge
		if err := rows.Scan(&edge.ID, &edge.DependentID, &edge.PrerequisiteID, &edge.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

// DeleteEdgesForTask removes all edges touching the task.
func (s *SQLite) DeleteEdgesForTask(ctx context.Context, taskID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM dependency_edges WHERE dependent_id = ? OR prerequisite_id = ?`, taskID, taskID)
	if err != nil {
		return 0, fmt.Errorf("delete task edges: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete task edges: %w", err)
	}
	return int(affected), nil
}

// WithPlanLock runs fn while holding the plan's mutex. Locks for
// different plans do not contend.
func (s *SQLite) WithPlanLock(ctx context.Context, planID string, fn func(ctx context.Context) error) error {
	s.lockMu.Lock()
	lock, ok := s.planLocks[planID]
	if !ok {
		lock = &sync.Mutex{}
		s.planLocks[planID] = lock
	}
	s.lockMu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

// -----------------------------------------------------------------------------
// TaskDirectory
// -----------------------------------------------------------------------------

// Task returns the task with the given ID.
func (s *SQLite) Task(ctx context.Context, taskID string) (*depgraph.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, plan_id, status FROM tasks WHERE id = ?`, taskID)

	var task depgraph.Task
	if err := row.Scan(&task.ID, &task.PlanID, &task.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("task", taskID)
		}
		return nil, fmt.Errorf("query task: %w", err)
	}
	return &task, nil
}

// TasksForPlan returns all tasks in the plan, or ErrPlanNotFound if the
// plan has no tasks and no membership entries.
func (s *SQLite) TasksForPlan(ctx context.Context, planID string) ([]*depgraph.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plan_id, status FROM tasks WHERE plan_id = ? ORDER BY id`, planID)
	if err != nil {
		return nil, fmt.Errorf("query plan tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*depgraph.Task
	for rows.Next() {
		var task depgraph.Task
		if err := rows.Scan(&task.ID, &task.PlanID, &task.Status); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(tasks) == 0 {
		var members int
		row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plan_members WHERE plan_id = ?`, planID)
		if err := row.Scan(&members); err != nil {
			return nil, fmt.Errorf("query plan members: %w", err)
		}
		if members == 0 {
			return nil, errors.NewNotFoundError("plan", planID)
		}
	}
	return tasks, nil
}

// SetStatus transitions the task to the given status inside a transaction
// and returns the updated task.
func (s *SQLite) SetStatus(ctx context.Context, taskID string, status depgraph.TaskStatus) (*depgraph.Task, error) {
	if !status.IsValid() {
		return nil, errors.NewValidationError("invalid task status").
			WithField("status").WithValue(string(status))
	}

	var task depgraph.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), taskID)
		if err != nil {
			return fmt.Errorf("update task status: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update task status: %w", err)
		}
		if affected == 0 {
			return errors.NewNotFoundError("task", taskID)
		}

		row := tx.QueryRowContext(ctx, `SELECT id, plan_id, status FROM tasks WHERE id = ?`, taskID)
		return row.Scan(&task.ID, &task.PlanID, &task.Status)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// PutTask inserts or replaces a task record. Store-level helper for the
// CLI and tests; the full product's task service owns task CRUD.
func (s *SQLite) PutTask(ctx context.Context, task depgraph.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, plan_id, status) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET plan_id = excluded.plan_id, status = excluded.status`,
		task.ID, task.PlanID, string(task.Status))
	if err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

// DeleteTask removes a task record. Edge cleanup is the engine's
// RemoveTaskEdges, called by whoever deletes the task.
func (s *SQLite) DeleteTask(ctx context.Context, taskID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return errors.NewNotFoundError("task", taskID)
	}
	return nil
}

// -----------------------------------------------------------------------------
// AccessPolicy
// -----------------------------------------------------------------------------

// Grant adds a principal to the plan's member set. A plan with any
// members is closed to everyone else; a plan with none is open.
func (s *SQLite) Grant(ctx context.Context, planID, principalID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO plan_members (plan_id, principal_id) VALUES (?, ?)`, planID, principalID)
	if err != nil {
		return fmt.Errorf("grant plan access: %w", err)
	}
	return nil
}

// CanAccessPlan reports whether the principal may act on the plan.
func (s *SQLite) CanAccessPlan(ctx context.Context, principalID, planID string) (bool, error) {
	var members int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plan_members WHERE plan_id = ?`, planID)
	if err := row.Scan(&members); err != nil {
		return false, fmt.Errorf("query plan members: %w", err)
	}
	if members == 0 {
		return true, nil
	}

	var granted int
	row = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM plan_members WHERE plan_id = ? AND principal_id = ?`, planID, principalID)
	if err := row.Scan(&granted); err != nil {
		return false, fmt.Errorf("query plan members: %w", err)
	}
	return granted > 0, nil
}

// Interface conformance checks.
var (
	_ depgraph.EdgeStore     = (*SQLite)(nil)
	_ depgraph.TaskDirectory = (*SQLite)(nil)
	_ depgraph.AccessPolicy  = (*SQLite)(nil)
)
