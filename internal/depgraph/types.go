package depgraph

import "time"

// -----------------------------------------------------------------------------
// Task Status
// -----------------------------------------------------------------------------

// TaskStatus represents the completion state of a task. Task records are
// owned by the task collaborator; the engine only reads this state and, via
// the override path, asks the collaborator to change it.
type TaskStatus string

const (
	// StatusNotStarted indicates the task has not been started.
	StatusNotStarted TaskStatus = "not_started"

	// StatusInProgress indicates work on the task is underway.
	StatusInProgress TaskStatus = "in_progress"

	// StatusCompleted indicates the task is done. Only this state satisfies
	// a dependent's prerequisite check.
	StatusCompleted TaskStatus = "completed"

	// StatusSkipped indicates the task was deliberately not done. Skipped
	// is terminal but does not satisfy prerequisites; completing a
	// dependent of a skipped task requires an explicit override.
	StatusSkipped TaskStatus = "skipped"
)

// String returns the string representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is one of the known states.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// IsTerminal returns true if this status represents a final state.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// IsComplete returns true only for StatusCompleted.
func (s TaskStatus) IsComplete() bool {
	return s == StatusCompleted
}

// -----------------------------------------------------------------------------
// Core Types
// -----------------------------------------------------------------------------

// Task is the engine's view of a task: identity, owning plan, and
// completion state. All other task fields live with the task collaborator.
type Task struct {
	ID     string     `json:"id"`
	PlanID string     `json:"plan_id"`
	Status TaskStatus `json:"status"`
}

// Edge is a persisted directed dependency: the dependent task cannot start
// until the prerequisite task completes.
type Edge struct {
	ID             string    `json:"id"`
	DependentID    string    `json:"dependent_id"`
	PrerequisiteID string    `json:"prerequisite_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// TaskEdges groups a task's edges by the role the task plays in them.
type TaskEdges struct {
	// AsDependent are edges where the task is the dependent
	// (its prerequisites).
	AsDependent []Edge `json:"as_dependent"`

	// AsPrerequisite are edges where the task is the prerequisite
	// (its dependents).
	AsPrerequisite []Edge `json:"as_prerequisite"`
}

// TaskLinks is the per-task entry of a plan dependency map: direct
// prerequisites and direct dependents, one hop only.
type TaskLinks struct {
	Prerequisites []string `json:"prerequisites"`
	Dependents    []string `json:"dependents"`
}

// DependencyMap maps task IDs to their direct links. It is derived on
// demand from a plan's edge set and never cached by the engine.
type DependencyMap map[string]*TaskLinks

// -----------------------------------------------------------------------------
// Validation Results
// -----------------------------------------------------------------------------

// ValidationSeverity classifies a validation message.
type ValidationSeverity string

const (
	// SeverityError indicates the candidate edge must be rejected.
	SeverityError ValidationSeverity = "error"

	// SeverityWarning indicates a non-fatal concern worth surfacing.
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationMessage is a single finding from validating a candidate edge.
type ValidationMessage struct {
	Severity   ValidationSeverity `json:"severity"`
	Message    string             `json:"message"`
	RelatedIDs []string           `json:"related_ids,omitempty"`
}

// IsError returns true if the message severity is error.
func (m ValidationMessage) IsError() bool {
	return m.Severity == SeverityError
}

// ValidationResult is the outcome of validating a candidate dependency
// without mutating anything. CyclePath is populated only when the candidate
// would create a cycle.
type ValidationResult struct {
	IsValid   bool                `json:"is_valid"`
	Messages  []ValidationMessage `json:"messages"`
	CyclePath []string            `json:"cycle_path,omitempty"`
}

// addError appends an error-severity message and marks the result invalid.
func (r *ValidationResult) addError(message string, relatedIDs ...string) {
	r.IsValid = false
	r.Messages = append(r.Messages, ValidationMessage{
		Severity:   SeverityError,
		Message:    message,
		RelatedIDs: relatedIDs,
	})
}
