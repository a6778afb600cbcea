package errors

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// DependencyError Tests
// -----------------------------------------------------------------------------

func TestNewDependencyError(t *testing.T) {
	err := NewDependencyError("cannot add dependency", ErrDuplicateEdge).
		WithEdge("task-1", "task-2")

	if err.DependentID != "task-1" {
		t.Errorf("DependentID = %q, want %q", err.DependentID, "task-1")
	}
	if err.PrerequisiteID != "task-2" {
		t.Errorf("PrerequisiteID = %q, want %q", err.PrerequisiteID, "task-2")
	}
	if !errors.Is(err, ErrDuplicateEdge) {
		t.Error("errors.Is(err, ErrDuplicateEdge) = false, want true")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
	if !err.IsUserFacing() {
		t.Error("IsUserFacing() = false, want true")
	}
}

func TestDependencyError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *DependencyError
		want string
	}{
		{
			name: "basic",
			err:  NewDependencyError("bad edge", nil),
			want: "dependency error: bad edge",
		},
		{
			name: "with edge and cause",
			err:  NewDependencyError("bad edge", ErrSelfReference).WithEdge("t1", "t1"),
			want: "dependency error: bad edge (dependent: t1, prerequisite: t1): task cannot depend on itself",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// CycleError Tests
// -----------------------------------------------------------------------------

func TestNewCycleError(t *testing.T) {
	err := NewCycleError([]string{"a", "b", "c", "a"})

	if !errors.Is(err, ErrDependencyCycle) {
		t.Error("errors.Is(err, ErrDependencyCycle) = false, want true")
	}
	want := "dependency cycle detected: a -> b -> c -> a"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatal("errors.As(err, &cycleErr) = false, want true")
	}
	if len(cycleErr.Path) != 4 {
		t.Errorf("len(Path) = %d, want 4", len(cycleErr.Path))
	}
}

func TestCycleError_EmptyPath(t *testing.T) {
	err := NewCycleError(nil)
	if got := err.Error(); got != "dependency cycle detected" {
		t.Errorf("Error() = %q, want %q", got, "dependency cycle detected")
	}
}

// -----------------------------------------------------------------------------
// NotFoundError Tests
// -----------------------------------------------------------------------------

func TestNewNotFoundError(t *testing.T) {
	tests := []struct {
		resourceType string
		sentinel     error
	}{
		{"task", ErrTaskNotFound},
		{"plan", ErrPlanNotFound},
		{"dependency", ErrEdgeNotFound},
		{"edge", ErrEdgeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.resourceType, func(t *testing.T) {
			err := NewNotFoundError(tt.resourceType, "id-1")
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(err, %v) = false, want true", tt.sentinel)
			}
			want := fmt.Sprintf("%s 'id-1' not found", tt.resourceType)
			if got := err.Error(); got != want {
				t.Errorf("Error() = %q, want %q", got, want)
			}
		})
	}
}

func TestNotFoundError_UnknownResourceType(t *testing.T) {
	err := NewNotFoundError("widget", "w-1")
	if errors.Is(err, ErrTaskNotFound) {
		t.Error("unknown resource type should not match ErrTaskNotFound")
	}
	if err.Error() != "widget 'w-1' not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}

// -----------------------------------------------------------------------------
// AccessDeniedError Tests
// -----------------------------------------------------------------------------

func TestNewAccessDeniedError(t *testing.T) {
	err := NewAccessDeniedError("user-1", "plan-1")

	if !errors.Is(err, ErrAccessDenied) {
		t.Error("errors.Is(err, ErrAccessDenied) = false, want true")
	}
	if err.PrincipalID != "user-1" || err.PlanID != "plan-1" {
		t.Errorf("principal/plan = %q/%q, want user-1/plan-1", err.PrincipalID, err.PlanID)
	}
	// The message must not leak principal or plan identifiers.
	if got := err.Error(); got != "access denied" {
		t.Errorf("Error() = %q, want %q", got, "access denied")
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "message only",
			err:  NewValidationError("task ID cannot be empty"),
			want: "validation error: task ID cannot be empty",
		},
		{
			name: "with field",
			err:  NewValidationError("cannot be empty").WithField("taskID"),
			want: "validation error [field=taskID]: cannot be empty",
		},
		{
			name: "with field and value",
			err:  NewValidationError("invalid status").WithField("status").WithValue("bogus"),
			want: "validation error [field=status, value=bogus]: invalid status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestIsStructural(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"self reference", NewDependencyError("x", ErrSelfReference), true},
		{"duplicate", NewDependencyError("x", ErrDuplicateEdge), true},
		{"cross plan", NewDependencyError("x", ErrCrossPlanEdge), true},
		{"cycle", NewCycleError([]string{"a", "b", "a"}), false},
		{"wrapped duplicate", fmt.Errorf("adding: %w", ErrDuplicateEdge), true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStructural(tt.err); got != tt.want {
				t.Errorf("IsStructural() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true, want false")
	}
	if IsUserFacing(errors.New("internal")) {
		t.Error("IsUserFacing(plain error) = true, want false")
	}
	if !IsUserFacing(NewNotFoundError("task", "t-1")) {
		t.Error("IsUserFacing(NotFoundError) = false, want true")
	}
	if !IsUserFacing(fmt.Errorf("context: %w", NewCycleError([]string{"a", "a"}))) {
		t.Error("IsUserFacing(wrapped CycleError) = false, want true")
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(nil); got != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v, want %v", got, SeverityDebug)
	}
	if got := GetSeverity(errors.New("boom")); got != SeverityError {
		t.Errorf("GetSeverity(plain) = %v, want %v", got, SeverityError)
	}
	err := NewDependencyError("x", nil).WithSeverity(SeverityCritical)
	if got := GetSeverity(err); got != SeverityCritical {
		t.Errorf("GetSeverity(critical) = %v, want %v", got, SeverityCritical)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	err := Wrap(ErrEdgeNotFound, "removing dependency")
	if !errors.Is(err, ErrEdgeNotFound) {
		t.Error("wrapped error should match sentinel")
	}
	want := "removing dependency: dependency edge not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = Wrapf(ErrTaskNotFound, "completing task %s", "t-9")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Error("Wrapf error should match sentinel")
	}
}
