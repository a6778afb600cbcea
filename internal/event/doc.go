// Package event provides a synchronous pub-sub bus for the dependency
// engine's notifications.
//
// The engine publishes an event for every graph mutation and every audited
// override; the surrounding service subscribes to forward them to its
// realtime broadcast and history collaborators without either side knowing
// about the other. The transport itself is out of scope here.
//
// # Event Types
//
//   - [EdgeAddedEvent], [EdgeRemovedEvent]: a dependency edge was created
//     or deleted
//   - [TaskEdgesRemovedEvent]: cascade cleanup removed a task's edges
//   - [TaskCompletedEvent]: a completion passed the override check
//   - [OverrideRecordedEvent]: an override audit record was written
//
// Event types follow the "category.action" naming convention:
// dependency.added, dependency.removed, dependency.task_cleared,
// task.completed, override.recorded.
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers run synchronously in the
// publisher's goroutine and are protected against panics; one misbehaving
// handler cannot block delivery to the others.
package event
