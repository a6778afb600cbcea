// Package errors provides centralized error definitions and error handling
// utilities for the LaunchMap dependency engine. It defines sentinel errors
// for every failure kind the engine can report, typed errors that carry
// diagnostic structure (cycle paths, offending edge pairs), and
// classification helpers.
//
// # Error Taxonomy
//
// Structural errors reject a mutation before any graph traversal:
//   - ErrSelfReference: a task cannot depend on itself
//   - ErrDuplicateEdge: the (dependent, prerequisite) pair already exists
//   - ErrCrossPlanEdge: the two tasks belong to different plans
//
// Semantic errors reject after traversal and carry diagnostics:
//   - CycleError (wraps ErrDependencyCycle): includes the discovered cycle path
//
// State errors are recoverable by the caller via explicit override:
//   - ErrIncompletePrerequisites: completion attempted on a blocked task
//
// Not-found and access errors reflect collaborator failures:
//   - NotFoundError, AccessDeniedError
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewDependencyError("cannot add edge", errors.ErrSelfReference).
//	    WithEdge(taskID, taskID)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrDependencyCycle) { ... }
//
//	var cycleErr *errors.CycleError
//	if errors.As(err, &cycleErr) {
//	    render(cycleErr.Path)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Structural edge validation errors
var (
	// ErrSelfReference indicates an edge whose dependent and prerequisite
	// are the same task.
	ErrSelfReference = New("task cannot depend on itself")
	// ErrDuplicateEdge indicates the (dependent, prerequisite) pair already exists.
	ErrDuplicateEdge = New("dependency already exists")
	// ErrCrossPlanEdge indicates the two endpoint tasks belong to different plans.
	ErrCrossPlanEdge = New("tasks belong to different plans")
)

// Semantic graph errors
var (
	// ErrDependencyCycle indicates the edge would make the plan graph cyclic.
	ErrDependencyCycle = New("dependency cycle detected")
)

// State errors
var (
	// ErrIncompletePrerequisites indicates a completion attempt on a task
	// with at least one incomplete prerequisite and no override requested.
	ErrIncompletePrerequisites = New("task has incomplete prerequisites")
)

// Lookup errors
var (
	// ErrEdgeNotFound indicates a dependency edge could not be found.
	ErrEdgeNotFound = New("dependency edge not found")
	// ErrTaskNotFound indicates a task could not be found.
	ErrTaskNotFound = New("task not found")
	// ErrPlanNotFound indicates a plan could not be found.
	ErrPlanNotFound = New("plan not found")
)

// Access errors
var (
	// ErrAccessDenied indicates the principal may not act on the plan.
	ErrAccessDenied = New("access denied")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// EngineError is the base interface for all dependency engine errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type EngineError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error message is safe for end users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain Errors
// -----------------------------------------------------------------------------

// DependencyError represents an error from a dependency edge mutation.
// The dependent and prerequisite task IDs identify the offending pair so
// the UI can render a specific warning rather than a generic failure.
//
// Example:
//
//	err := errors.NewDependencyError("cannot add dependency", errors.ErrDuplicateEdge).
//	    WithEdge("task-1", "task-2")
type DependencyError struct {
	baseError
	DependentID    string
	PrerequisiteID string
}

// NewDependencyError creates a new DependencyError.
func NewDependencyError(message string, cause error) *DependencyError {
	return &DependencyError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithEdge adds the offending (dependent, prerequisite) pair.
func (e *DependencyError) WithEdge(dependentID, prerequisiteID string) *DependencyError {
	e.DependentID = dependentID
	e.PrerequisiteID = prerequisiteID
	return e
}

// WithSeverity sets the severity level.
func (e *DependencyError) WithSeverity(s Severity) *DependencyError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *DependencyError) Error() string {
	msg := fmt.Sprintf("dependency error: %s", e.message)
	if e.DependentID != "" || e.PrerequisiteID != "" {
		msg = fmt.Sprintf("%s (dependent: %s, prerequisite: %s)", msg, e.DependentID, e.PrerequisiteID)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Is checks if this error matches the target.
func (e *DependencyError) Is(target error) bool {
	if _, ok := target.(*DependencyError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// CycleError represents a rejected edge that would create a dependency cycle.
// Path holds the full cycle for diagnostic display, ending with a closing
// repeat of the first task ID.
//
// Example:
//
//	err := errors.NewCycleError([]string{"a", "b", "c", "a"})
//	fmt.Println(err) // "dependency cycle detected: a -> b -> c -> a"
type CycleError struct {
	baseError
	Path []string
}

// NewCycleError creates a new CycleError from the discovered cycle path.
func NewCycleError(path []string) *CycleError {
	return &CycleError{
		baseError: baseError{
			message:    "dependency cycle detected",
			cause:      ErrDependencyCycle,
			severity:   SeverityWarning,
			userFacing: true,
		},
		Path: path,
	}
}

// Error returns the formatted error message including the cycle path.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return e.message
	}
	return fmt.Sprintf("%s: %s", e.message, strings.Join(e.Path, " -> "))
}

// Is checks if this error matches the target.
func (e *CycleError) Is(target error) bool {
	if _, ok := target.(*CycleError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("task", "abc123")
//	fmt.Println(err) // "task 'abc123' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	e := &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
	// Map resource types onto the matching sentinel so errors.Is works
	// without callers knowing the concrete type.
	switch resourceType {
	case "task":
		e.cause = ErrTaskNotFound
	case "plan":
		e.cause = ErrPlanNotFound
	case "dependency", "edge":
		e.cause = ErrEdgeNotFound
	}
	return e
}

// WithCause replaces the underlying cause.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// AccessDeniedError represents a principal that may not read or mutate a
// plan's tasks.
type AccessDeniedError struct {
	baseError
	PrincipalID string
	PlanID      string
}

// NewAccessDeniedError creates a new AccessDeniedError.
func NewAccessDeniedError(principalID, planID string) *AccessDeniedError {
	return &AccessDeniedError{
		baseError: baseError{
			message:    "access denied",
			cause:      ErrAccessDenied,
			severity:   SeverityWarning,
			userFacing: true,
		},
		PrincipalID: principalID,
		PlanID:      planID,
	}
}

// Error returns the formatted error message. The principal and plan are
// intentionally omitted from the user-facing text.
func (e *AccessDeniedError) Error() string {
	return e.message
}

// Is checks if this error matches the target.
func (e *AccessDeniedError) Is(target error) bool {
	if _, ok := target.(*AccessDeniedError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("task ID cannot be empty").WithField("taskID")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsStructural returns true if the error is a structural edge validation
// failure (self-reference, duplicate, cross-plan). Structural errors are
// detected before any graph traversal.
func IsStructural(err error) bool {
	return Is(err, ErrSelfReference) || Is(err, ErrDuplicateEdge) || Is(err, ErrCrossPlanEdge)
}

// IsUserFacing returns true if the error message is safe to display to end
// users. Errors that don't implement EngineError are considered internal.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var engineErr EngineError
	if As(err, &engineErr) {
		return engineErr.IsUserFacing()
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement EngineError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var engineErr EngineError
	if As(err, &engineErr) {
		return engineErr.Severity()
	}

	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to add dependency")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
