package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "dependency.added").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Dependency Edge Events
// -----------------------------------------------------------------------------

// EdgeAddedEvent is emitted when a dependency edge is created.
type EdgeAddedEvent struct {
	baseEvent
	EdgeID         string // Identifier of the new edge
	PlanID         string // Plan both endpoints belong to
	DependentID    string // Task that is blocked by the prerequisite
	PrerequisiteID string // Task that must complete first
}

// NewEdgeAddedEvent creates an EdgeAddedEvent.
func NewEdgeAddedEvent(edgeID, planID, dependentID, prerequisiteID string) EdgeAddedEvent {
	return EdgeAddedEvent{
		baseEvent:      newBaseEvent("dependency.added"),
		EdgeID:         edgeID,
		PlanID:         planID,
		DependentID:    dependentID,
		PrerequisiteID: prerequisiteID,
	}
}

// EdgeRemovedEvent is emitted when a dependency edge is deleted.
type EdgeRemovedEvent struct {
	baseEvent
	EdgeID         string
	PlanID         string
	DependentID    string
	PrerequisiteID string
}

// NewEdgeRemovedEvent creates an EdgeRemovedEvent.
func NewEdgeRemovedEvent(edgeID, planID, dependentID, prerequisiteID string) EdgeRemovedEvent {
	return EdgeRemovedEvent{
		baseEvent:      newBaseEvent("dependency.removed"),
		EdgeID:         edgeID,
		PlanID:         planID,
		DependentID:    dependentID,
		PrerequisiteID: prerequisiteID,
	}
}

// TaskEdgesRemovedEvent is emitted when cascade cleanup removes all edges
// touching a deleted task.
type TaskEdgesRemovedEvent struct {
	baseEvent
	TaskID       string // Task whose edges were removed
	RemovedCount int    // Number of edges removed, both directions
}

// NewTaskEdgesRemovedEvent creates a TaskEdgesRemovedEvent.
func NewTaskEdgesRemovedEvent(taskID string, removedCount int) TaskEdgesRemovedEvent {
	return TaskEdgesRemovedEvent{
		baseEvent:    newBaseEvent("dependency.task_cleared"),
		TaskID:       taskID,
		RemovedCount: removedCount,
	}
}

// -----------------------------------------------------------------------------
// Completion Events
// -----------------------------------------------------------------------------

// TaskCompletedEvent is emitted when a task passes the override check and
// its status mutation succeeds.
type TaskCompletedEvent struct {
	baseEvent
	TaskID   string
	PlanID   string
	Overrode bool // True if incomplete prerequisites were overridden
}

// NewTaskCompletedEvent creates a TaskCompletedEvent.
func NewTaskCompletedEvent(taskID, planID string, overrode bool) TaskCompletedEvent {
	return TaskCompletedEvent{
		baseEvent: newBaseEvent("task.completed"),
		TaskID:    taskID,
		PlanID:    planID,
		Overrode:  overrode,
	}
}

// OverrideRecordedEvent is emitted after an override audit record is
// written, exactly once per overridden completion.
type OverrideRecordedEvent struct {
	baseEvent
	TaskID      string
	PlanID      string
	PrincipalID string
	RecordedAt  time.Time
}

// NewOverrideRecordedEvent creates an OverrideRecordedEvent.
func NewOverrideRecordedEvent(taskID, planID, principalID string, recordedAt time.Time) OverrideRecordedEvent {
	return OverrideRecordedEvent{
		baseEvent:   newBaseEvent("override.recorded"),
		TaskID:      taskID,
		PlanID:      planID,
		PrincipalID: principalID,
		RecordedAt:  recordedAt,
	}
}
