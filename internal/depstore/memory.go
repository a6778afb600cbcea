package depstore

import (
	"context"
	"sync"

	"github.com/launchmap/launchmap/internal/depgraph"
	"github.com/launchmap/launchmap/internal/errors"
)

// Memory is an in-memory store for edges, tasks, and plan membership.
// All methods are safe for concurrent use. Plan mutations are serialized
// through per-plan mutexes handed out by WithPlanLock.
type Memory struct {
	mu      sync.RWMutex
	edges   map[string]depgraph.Edge // edgeID -> edge
	tasks   map[string]depgraph.Task // taskID -> task
	members map[string]map[string]bool

	lockMu    sync.Mutex
	planLocks map[string]*sync.Mutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		edges:     make(map[string]depgraph.Edge),
		tasks:     make(map[string]depgraph.Task),
		members:   make(map[string]map[string]bool),
		planLocks: make(map[string]*sync.Mutex),
	}
}

// -----------------------------------------------------------------------------
// EdgeStore
// -----------------------------------------------------------------------------

// InsertEdge persists a new edge, rejecting duplicate pairs.
func (m *Memory) InsertEdge(ctx context.Context, edge depgraph.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.edges {
		if existing.DependentID == edge.DependentID && existing.PrerequisiteID == edge.PrerequisiteID {
			return errors.NewDependencyError("cannot insert edge", errors.ErrDuplicateEdge).
				WithEdge(edge.DependentID, edge.PrerequisiteID)
		}
	}

	m.edges[edge.ID] = edge
	return nil
}

// DeleteEdge removes an edge by ID.
func (m *Memory) DeleteEdge(ctx context.Context, edgeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.edges[edgeID]; !ok {
		return errors.NewNotFoundError("dependency", edgeID)
	}
	delete(m.edges, edgeID)
	return nil
}

// EdgeByID returns the edge with the given ID.
func (m *Memory) EdgeByID(ctx context.Context, edgeID string) (*depgraph.Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	edge, ok := m.edges[edgeID]
	if !ok {
		return nil, errors.NewNotFoundError("dependency", edgeID)
	}
	return &edge, nil
}

// EdgesForTask returns the task's edges in both directions.
func (m *Memory) EdgesForTask(ctx context.Context, taskID string) (*depgraph.TaskEdges, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	te := &depgraph.TaskEdges{AsDependent: []depgraph.Edge{}, AsPrerequisite: []depgraph.Edge{}}
	for _, edge := range m.edges {
		if edge.DependentID == taskID {
			te.AsDependent = append(te.AsDependent, edge)
		}
		if edge.PrerequisiteID == taskID {
			te.AsPrerequisite = append(te.AsPrerequisite, edge)
		}
	}
	return te, nil
}

// EdgesForPlan returns every edge whose dependent belongs to the plan.
// Both endpoints share a plan by invariant, so filtering on the dependent
// side is sufficient.
func (m *Memory) EdgesForPlan(ctx context.Context, planID string) ([]depgraph.Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var edges []depgraph.Edge
	for _, edge := range m.edges {
		task, ok := m.tasks[edge.DependentID]
		if ok && task.PlanID == planID {
			edges = append(edges, edge)
		}
	}
	return edges, nil
}

// DeleteEdgesForTask removes all edges touching the task.
func (m *Memory) DeleteEdgesForTask(ctx context.Context, taskID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, edge := range m.edges {
		if edge.DependentID == taskID || edge.PrerequisiteID == taskID {
			delete(m.edges, id)
			removed++
		}
	}
	return removed, nil
}

// WithPlanLock runs fn while holding the plan's mutex. Locks for different
// plans do not contend.
func (m *Memory) WithPlanLock(ctx context.Context, planID string, fn func(ctx context.Context) error) error {
	m.lockMu.Lock()
	lock, ok := m.planLocks[planID]
	if !ok {
		lock = &sync.Mutex{}
		m.planLocks[planID] = lock
	}
	m.lockMu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

// -----------------------------------------------------------------------------
// TaskDirectory
// -----------------------------------------------------------------------------

// Task returns the task with the given ID.
func (m *Memory) Task(ctx context.Context, taskID string) (*depgraph.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[taskID]
	if !ok {
		return nil, errors.NewNotFoundError("task", taskID)
	}
	return &task, nil
}

// TasksForPlan returns all tasks in the plan, or ErrPlanNotFound if the
// plan has no tasks and no membership entries.
func (m *Memory) TasksForPlan(ctx context.Context, planID string) ([]*depgraph.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var tasks []*depgraph.Task
	for _, task := range m.tasks {
		if task.PlanID == planID {
			t := task
			tasks = append(tasks, &t)
		}
	}
	if len(tasks) == 0 && len(m.members[planID]) == 0 {
		return nil, errors.NewNotFoundError("plan", planID)
	}
	return tasks, nil
}

// SetStatus transitions the task to the given status.
func (m *Memory) SetStatus(ctx context.Context, taskID string, status depgraph.TaskStatus) (*depgraph.Task, error) {
	if !status.IsValid() {
		return nil, errors.NewValidationError("invalid task status").
			WithField("status").WithValue(string(status))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[taskID]
	if !ok {
		return nil, errors.NewNotFoundError("task", taskID)
	}
	task.Status = status
	m.tasks[taskID] = task
	return &task, nil
}

// PutTask inserts or replaces a task record. Store-level helper for the
// CLI and tests; the full product's task service owns task CRUD.
func (m *Memory) PutTask(ctx context.Context, task depgraph.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = task
	return nil
}

// DeleteTask removes a task record. Edge cleanup is the engine's
// RemoveTaskEdges, called by whoever deletes the task.
func (m *Memory) DeleteTask(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[taskID]; !ok {
		return errors.NewNotFoundError("task", taskID)
	}
	delete(m.tasks, taskID)
	return nil
}

// -----------------------------------------------------------------------------
// AccessPolicy
// -----------------------------------------------------------------------------

// Grant adds a principal to the plan's member set. A plan with any members
// is closed to everyone else; a plan with none is open.
func (m *Memory) Grant(planID, principalID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.members[planID] == nil {
		m.members[planID] = make(map[string]bool)
	}
	m.members[planID][principalID] = true
}

// CanAccessPlan reports whether the principal may act on the plan.
func (m *Memory) CanAccessPlan(ctx context.Context, principalID, planID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members := m.members[planID]
	if len(members) == 0 {
		return true, nil
	}
	return members[principalID], nil
}

// Interface conformance checks.
var (
	_ depgraph.EdgeStore     = (*Memory)(nil)
	_ depgraph.TaskDirectory = (*Memory)(nil)
	_ depgraph.AccessPolicy  = (*Memory)(nil)
)
