package depgraph

import (
	"context"
	"sort"

	"github.com/launchmap/launchmap/internal/errors"
)

// BuildDependencyMap derives the per-task link view from a plan's edge
// set. Pure function; the result is a fresh value built once per call.
// Link slices are sorted for stable display.
func BuildDependencyMap(edges []Edge) DependencyMap {
	m := make(DependencyMap, len(edges))

	links := func(taskID string) *TaskLinks {
		if l, ok := m[taskID]; ok {
			return l
		}
		l := &TaskLinks{Prerequisites: []string{}, Dependents: []string{}}
		m[taskID] = l
		return l
	}

	for _, e := range edges {
		links(e.DependentID).Prerequisites = append(links(e.DependentID).Prerequisites, e.PrerequisiteID)
		links(e.PrerequisiteID).Dependents = append(links(e.PrerequisiteID).Dependents, e.DependentID)
	}

	for _, l := range m {
		sort.Strings(l.Prerequisites)
		sort.Strings(l.Dependents)
	}
	return m
}

// TaskDependencies returns the task's direct prerequisites and dependents,
// one hop only, after checking the principal may read the owning plan.
func (e *Engine) TaskDependencies(ctx context.Context, principalID, taskID string) (*TaskLinks, error) {
	task, err := e.tasks.Task(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := e.authorize(ctx, principalID, task.PlanID); err != nil {
		return nil, err
	}

	te, err := e.store.EdgesForTask(ctx, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "loading task edges")
	}

	links := &TaskLinks{Prerequisites: []string{}, Dependents: []string{}}
	for _, edge := range te.AsDependent {
		links.Prerequisites = append(links.Prerequisites, edge.PrerequisiteID)
	}
	for _, edge := range te.AsPrerequisite {
		links.Dependents = append(links.Dependents, edge.DependentID)
	}
	sort.Strings(links.Prerequisites)
	sort.Strings(links.Dependents)
	return links, nil
}

// incompletePrerequisites resolves the task's direct prerequisites and
// returns those whose status is not completed. No access check; callers
// that expose this externally wrap it.
func (e *Engine) incompletePrerequisites(ctx context.Context, taskID string) ([]*Task, error) {
	te, err := e.store.EdgesForTask(ctx, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "loading task edges")
	}

	incomplete := make([]*Task, 0, len(te.AsDependent))
	for _, edge := range te.AsDependent {
		prereq, err := e.tasks.Task(ctx, edge.PrerequisiteID)
		if err != nil {
			return nil, err
		}
		if !prereq.Status.IsComplete() {
			incomplete = append(incomplete, prereq)
		}
	}

	sort.Slice(incomplete, func(i, j int) bool { return incomplete[i].ID < incomplete[j].ID })
	return incomplete, nil
}

// IncompletePrerequisites returns the task's direct prerequisites not yet
// in the completed state. Used to populate warning content before a
// completion attempt.
func (e *Engine) IncompletePrerequisites(ctx context.Context, principalID, taskID string) ([]*Task, error) {
	task, err := e.tasks.Task(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := e.authorize(ctx, principalID, task.PlanID); err != nil {
		return nil, err
	}
	return e.incompletePrerequisites(ctx, taskID)
}

// IsBlocked reports whether at least one of the task's direct
// prerequisites is not completed. A task with no prerequisites is never
// blocked. A prerequisite whose task record cannot be found counts as
// incomplete: a dangling edge must fail safe rather than unblock work.
func (e *Engine) IsBlocked(ctx context.Context, taskID string) (bool, error) {
	te, err := e.store.EdgesForTask(ctx, taskID)
	if err != nil {
		return false, errors.Wrap(err, "loading task edges")
	}

	for _, edge := range te.AsDependent {
		prereq, err := e.tasks.Task(ctx, edge.PrerequisiteID)
		if err != nil {
			if errors.Is(err, errors.ErrTaskNotFound) {
				return true, nil
			}
			return false, err
		}
		if !prereq.Status.IsComplete() {
			return true, nil
		}
	}
	return false, nil
}

// ReadyTasks returns the plan's tasks that are not started and not
// blocked, sorted by ID. Blocking is computed from the plan-wide edge set
// in a single pass rather than per-task store reads.
func (e *Engine) ReadyTasks(ctx context.Context, principalID, planID string) ([]*Task, error) {
	if err := e.authorize(ctx, principalID, planID); err != nil {
		return nil, err
	}

	tasks, err := e.tasks.TasksForPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	edges, err := e.store.EdgesForPlan(ctx, planID)
	if err != nil {
		return nil, errors.Wrap(err, "loading plan edges")
	}

	byID := make(map[string]*Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	prereqs := make(map[string][]string, len(edges))
	for _, edge := range edges {
		prereqs[edge.DependentID] = append(prereqs[edge.DependentID], edge.PrerequisiteID)
	}

	var ready []*Task
	for _, t := range tasks {
		if t.Status != StatusNotStarted {
			continue
		}
		blocked := false
		for _, prereqID := range prereqs[t.ID] {
			prereq, ok := byID[prereqID]
			if !ok || !prereq.Status.IsComplete() {
				blocked = true
				break
			}
		}
		if !blocked {
			ready = append(ready, t)
		}
	}

	sort.Slice(ready, func(i, j int) bool { return ready[i].ID < ready[j].ID })
	return ready, nil
}

// PlanDependencyMap builds the plan-wide dependency view: every task that
// participates in at least one edge, mapped to its direct prerequisites
// and dependents. Built once per call from the plan's edge set; never
// cached.
func (e *Engine) PlanDependencyMap(ctx context.Context, principalID, planID string) (DependencyMap, error) {
	if err := e.authorize(ctx, principalID, planID); err != nil {
		return nil, err
	}

	edges, err := e.store.EdgesForPlan(ctx, planID)
	if err != nil {
		return nil, errors.Wrap(err, "loading plan edges")
	}
	return BuildDependencyMap(edges), nil
}
