package depgraph

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/launchmap/launchmap/internal/errors"
	"github.com/launchmap/launchmap/internal/event"
	"github.com/launchmap/launchmap/internal/logging"
)

// Engine exposes the dependency graph operations to the surrounding
// service. It holds no graph state of its own: every operation reads
// through the EdgeStore and the task collaborator, and mutations are
// serialized per plan by the store's lock.
type Engine struct {
	store  EdgeStore
	tasks  TaskDirectory
	access AccessPolicy
	audit  AuditSink

	bus *event.Bus
	log *logging.Logger
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. Defaults to a no-op logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithBus sets the event bus mutations publish to. Without a bus, events
// are simply not published.
func WithBus(bus *event.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithClock overrides the time source used for edge and audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine over the given store and collaborators.
func New(store EdgeStore, tasks TaskDirectory, access AccessPolicy, audit AuditSink, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		tasks:  tasks,
		access: access,
		audit:  audit,
		now:    time.Now,
		log:    logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("depgraph")
	return e
}

// publish sends an event if a bus is configured.
func (e *Engine) publish(ev event.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

// authorize resolves the access check for a principal against a plan.
func (e *Engine) authorize(ctx context.Context, principalID, planID string) error {
	ok, err := e.access.CanAccessPlan(ctx, principalID, planID)
	if err != nil {
		return errors.Wrap(err, "access check failed")
	}
	if !ok {
		return errors.NewAccessDeniedError(principalID, planID)
	}
	return nil
}

// resolvePair looks up both endpoint tasks and enforces the structural
// invariants that need no graph traversal: distinct IDs and a shared plan.
func (e *Engine) resolvePair(ctx context.Context, dependentID, prerequisiteID string) (*Task, *Task, error) {
	if dependentID == prerequisiteID {
		return nil, nil, errors.NewDependencyError("cannot add dependency", errors.ErrSelfReference).
			WithEdge(dependentID, prerequisiteID)
	}

	dependent, err := e.tasks.Task(ctx, dependentID)
	if err != nil {
		return nil, nil, err
	}
	prerequisite, err := e.tasks.Task(ctx, prerequisiteID)
	if err != nil {
		return nil, nil, err
	}

	if dependent.PlanID != prerequisite.PlanID {
		return nil, nil, errors.NewDependencyError("cannot add dependency", errors.ErrCrossPlanEdge).
			WithEdge(dependentID, prerequisiteID)
	}
	return dependent, prerequisite, nil
}

// AddDependency records that dependentID cannot start until prerequisiteID
// completes. Structural checks (self-reference, existence, same plan) and
// the access check run first; the duplicate check, cycle check, and insert
// then run as one sequence under the plan lock so concurrent adds cannot
// jointly introduce a cycle.
func (e *Engine) AddDependency(ctx context.Context, principalID, dependentID, prerequisiteID string) (*Edge, error) {
	dependent, _, err := e.resolvePair(ctx, dependentID, prerequisiteID)
	if err != nil {
		return nil, err
	}
	if err := e.authorize(ctx, principalID, dependent.PlanID); err != nil {
		return nil, err
	}

	edge := Edge{
		ID:             uuid.NewString(),
		DependentID:    dependentID,
		PrerequisiteID: prerequisiteID,
		CreatedAt:      e.now().UTC(),
	}

	err = e.store.WithPlanLock(ctx, dependent.PlanID, func(ctx context.Context) error {
		edges, err := e.store.EdgesForPlan(ctx, dependent.PlanID)
		if err != nil {
			return errors.Wrap(err, "loading plan edges")
		}

		for _, existing := range edges {
			if existing.DependentID == dependentID && existing.PrerequisiteID == prerequisiteID {
				return errors.NewDependencyError("cannot add dependency", errors.ErrDuplicateEdge).
					WithEdge(dependentID, prerequisiteID)
			}
		}

		if cycle := DetectCycle(edges, dependentID, prerequisiteID); cycle != nil {
			return errors.NewCycleError(cycle)
		}

		return e.store.InsertEdge(ctx, edge)
	})
	if err != nil {
		return nil, err
	}

	e.log.WithPlan(dependent.PlanID).WithPrincipal(principalID).Info("dependency added",
		"edge_id", edge.ID,
		"dependent_id", dependentID,
		"prerequisite_id", prerequisiteID,
	)
	e.publish(event.NewEdgeAddedEvent(edge.ID, dependent.PlanID, dependentID, prerequisiteID))

	return &edge, nil
}

// RemoveDependency deletes an edge by ID after checking the principal may
// mutate the owning plan.
func (e *Engine) RemoveDependency(ctx context.Context, principalID, edgeID string) error {
	edge, err := e.store.EdgeByID(ctx, edgeID)
	if err != nil {
		return err
	}

	dependent, err := e.tasks.Task(ctx, edge.DependentID)
	if err != nil {
		return err
	}
	if err := e.authorize(ctx, principalID, dependent.PlanID); err != nil {
		return err
	}

	if err := e.store.DeleteEdge(ctx, edgeID); err != nil {
		return err
	}

	e.log.WithPlan(dependent.PlanID).WithPrincipal(principalID).Info("dependency removed",
		"edge_id", edgeID,
		"dependent_id", edge.DependentID,
		"prerequisite_id", edge.PrerequisiteID,
	)
	e.publish(event.NewEdgeRemovedEvent(edgeID, dependent.PlanID, edge.DependentID, edge.PrerequisiteID))

	return nil
}

// ValidateDependency checks a candidate edge without mutating anything.
// All structural findings and any discovered cycle are collected into the
// result rather than returned as errors; only task lookup failures
// propagate. The add path re-validates under the plan lock, so a valid
// result here is advisory, not a reservation.
func (e *Engine) ValidateDependency(ctx context.Context, dependentID, prerequisiteID string) (*ValidationResult, error) {
	result := &ValidationResult{IsValid: true, Messages: []ValidationMessage{}}

	if dependentID == prerequisiteID {
		result.addError("a task cannot depend on itself", dependentID)
		return result, nil
	}

	dependent, err := e.tasks.Task(ctx, dependentID)
	if err != nil {
		return nil, err
	}
	prerequisite, err := e.tasks.Task(ctx, prerequisiteID)
	if err != nil {
		return nil, err
	}

	if dependent.PlanID != prerequisite.PlanID {
		result.addError("tasks belong to different plans", dependentID, prerequisiteID)
		return result, nil
	}

	edges, err := e.store.EdgesForPlan(ctx, dependent.PlanID)
	if err != nil {
		return nil, errors.Wrap(err, "loading plan edges")
	}

	for _, existing := range edges {
		if existing.DependentID == dependentID && existing.PrerequisiteID == prerequisiteID {
			result.addError("dependency already exists", dependentID, prerequisiteID)
			return result, nil
		}
	}

	if cycle := DetectCycle(edges, dependentID, prerequisiteID); cycle != nil {
		result.addError("dependency would create a cycle", cycle...)
		result.CyclePath = cycle
	}

	return result, nil
}

// RemoveTaskEdges removes every edge touching the task, in either
// direction. The task collaborator calls this as cascade cleanup around
// task deletion; ordering relative to the deletion itself is the
// collaborator's responsibility. The task record may already be gone, so
// no existence or access check is performed here.
func (e *Engine) RemoveTaskEdges(ctx context.Context, taskID string) (int, error) {
	removed, err := e.store.DeleteEdgesForTask(ctx, taskID)
	if err != nil {
		return 0, errors.Wrapf(err, "removing edges for task %s", taskID)
	}

	if removed > 0 {
		e.log.WithTask(taskID).Info("task edges removed", "count", removed)
		e.publish(event.NewTaskEdgesRemovedEvent(taskID, removed))
	}
	return removed, nil
}
