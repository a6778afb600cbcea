package depgraph

import (
	"context"
	"time"
)

// TaskDirectory is the engine's read/mutate contract with the external task
// collaborator. The engine never changes task state except through
// SetStatus, and only from the override-checked completion path.
type TaskDirectory interface {
	// Task returns the task with the given ID, or an error matching
	// errors.ErrTaskNotFound.
	Task(ctx context.Context, taskID string) (*Task, error)

	// TasksForPlan returns all tasks belonging to the plan, or an error
	// matching errors.ErrPlanNotFound if the plan does not exist.
	TasksForPlan(ctx context.Context, planID string) ([]*Task, error)

	// SetStatus transitions the task to the given status and returns the
	// updated task.
	SetStatus(ctx context.Context, taskID string, status TaskStatus) (*Task, error)
}

// AccessPolicy answers whether a principal may read or mutate a plan's
// tasks. The engine treats a false answer and an error identically for
// authorization purposes; errors additionally propagate.
type AccessPolicy interface {
	CanAccessPlan(ctx context.Context, principalID, planID string) (bool, error)
}

// AuditSink receives override records for the external history
// collaborator. RecordOverride is called at most once per successful
// overridden completion, and never before the status mutation succeeds.
type AuditSink interface {
	RecordOverride(ctx context.Context, taskID, principalID string, at time.Time) error
}
