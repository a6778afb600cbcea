package depgraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/launchmap/launchmap/internal/errors"
	"github.com/launchmap/launchmap/internal/event"
)

// PrerequisiteError rejects a completion attempt on a blocked task when no
// override was requested. It carries the incomplete prerequisites so the
// UI can show exactly what is missing before offering the override.
type PrerequisiteError struct {
	TaskID     string
	Incomplete []*Task
}

// Error returns the formatted error message.
func (e *PrerequisiteError) Error() string {
	ids := make([]string, len(e.Incomplete))
	for i, t := range e.Incomplete {
		ids[i] = t.ID
	}
	return fmt.Sprintf("task %s has incomplete prerequisites: %s", e.TaskID, strings.Join(ids, ", "))
}

// Is matches the ErrIncompletePrerequisites sentinel.
func (e *PrerequisiteError) Is(target error) bool {
	return target == errors.ErrIncompletePrerequisites
}

// CompleteWithOverrideCheck gates task completion on dependency state.
//
// The attempt proceeds through a fixed sequence: evaluate the task's
// incomplete prerequisites; if there are none, delegate the status
// mutation with no override involved. If prerequisites are incomplete and
// no override was requested, reject with a [PrerequisiteError] and mutate
// nothing. If an override was requested, delegate the mutation and then
// emit exactly one audit record.
//
// The audit write is strictly conditional on the status mutation
// succeeding, so a failed mutation never leaves an orphaned audit entry.
// If the audit write itself fails, the completed task is returned together
// with the error: the status change belongs to the task collaborator and
// is not rolled back, and the caller can retry the audit record.
func (e *Engine) CompleteWithOverrideCheck(ctx context.Context, principalID, taskID string, override bool) (*Task, error) {
	task, err := e.tasks.Task(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := e.authorize(ctx, principalID, task.PlanID); err != nil {
		return nil, err
	}

	incomplete, err := e.incompletePrerequisites(ctx, taskID)
	if err != nil {
		return nil, err
	}

	overrode := len(incomplete) > 0
	if overrode && !override {
		return nil, &PrerequisiteError{TaskID: taskID, Incomplete: incomplete}
	}

	updated, err := e.tasks.SetStatus(ctx, taskID, StatusCompleted)
	if err != nil {
		return nil, errors.Wrapf(err, "completing task %s", taskID)
	}

	log := e.log.WithPlan(task.PlanID).WithTask(taskID).WithPrincipal(principalID)
	log.Info("task completed", "overrode_prerequisites", overrode)
	e.publish(event.NewTaskCompletedEvent(taskID, task.PlanID, overrode))

	if overrode {
		at := e.now().UTC()
		if err := e.audit.RecordOverride(ctx, taskID, principalID, at); err != nil {
			log.Error("override audit write failed", "error", err)
			return updated, errors.Wrap(err, "recording override")
		}
		e.publish(event.NewOverrideRecordedEvent(taskID, task.PlanID, principalID, at))
	}

	return updated, nil
}
