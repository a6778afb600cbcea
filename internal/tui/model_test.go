package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/launchmap/launchmap/internal/depgraph"
	"github.com/launchmap/launchmap/internal/depstore"
)

func newViewerModel(t *testing.T, showCompleted bool) Model {
	t.Helper()
	ctx := context.Background()

	store := depstore.NewMemory()
	for _, task := range []depgraph.Task{
		{ID: "task-a", PlanID: "plan-1", Status: depgraph.StatusCompleted},
		{ID: "task-b", PlanID: "plan-1", Status: depgraph.StatusNotStarted},
		{ID: "task-c", PlanID: "plan-1", Status: depgraph.StatusNotStarted},
	} {
		if err := store.PutTask(ctx, task); err != nil {
			t.Fatalf("PutTask: %v", err)
		}
	}

	eng := depgraph.New(store, store, store, nil)
	if _, err := eng.AddDependency(ctx, "tester", "task-c", "task-b"); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}

	return NewModel(eng, store, nil, Options{
		PlanID:        "plan-1",
		Principal:     "tester",
		ShowCompleted: showCompleted,
	})
}

// loadNow runs the model's load command synchronously and applies the
// resulting message.
func loadNow(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.loadRows()()
	loaded, ok := msg.(rowsLoadedMsg)
	if !ok {
		t.Fatalf("load produced %T", msg)
	}
	if loaded.err != nil {
		t.Fatalf("load error: %v", loaded.err)
	}
	updated, _ := m.Update(loaded)
	return updated.(Model)
}

func TestModelDerivesStates(t *testing.T) {
	m := loadNow(t, newViewerModel(t, true))

	if len(m.rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(m.rows))
	}

	states := make(map[string]string)
	for _, r := range m.rows {
		states[r.task.ID] = r.state
	}
	if states["task-a"] != "completed" {
		t.Errorf("task-a state = %s, want completed", states["task-a"])
	}
	if states["task-b"] != "ready" {
		t.Errorf("task-b state = %s, want ready", states["task-b"])
	}
	if states["task-c"] != "blocked" {
		t.Errorf("task-c state = %s, want blocked", states["task-c"])
	}
}

func TestModelHidesCompleted(t *testing.T) {
	m := loadNow(t, newViewerModel(t, false))

	for _, r := range m.visibleRows() {
		if r.task.ID == "task-a" {
			t.Error("completed task should be hidden")
		}
	}
	if len(m.visibleRows()) != 2 {
		t.Errorf("got %d visible rows, want 2", len(m.visibleRows()))
	}
}

func TestModelFilter(t *testing.T) {
	m := loadNow(t, newViewerModel(t, true))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = updated.(Model)
	if !m.filter.Focused() {
		t.Fatal("/ should focus the filter")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = updated.(Model)

	visible := m.visibleRows()
	if len(visible) != 1 || visible[0].task.ID != "task-c" {
		ids := make([]string, len(visible))
		for i, r := range visible {
			ids[i] = r.task.ID
		}
		t.Errorf("filtered rows = %v, want [task-c]", ids)
	}
}

func TestModelNavigationAndQuit(t *testing.T) {
	m := loadNow(t, newViewerModel(t, true))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = updated.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor = %d after j, want 1", m.cursor)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = updated.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after k, want 0", m.cursor)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelView(t *testing.T) {
	m := loadNow(t, newViewerModel(t, true))

	view := m.View()
	for _, want := range []string{"Plan plan-1", "task-a", "task-b", "task-c", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	// task-c is blocked behind task-b; the selected row's links show it.
	if !strings.Contains(view, "blocks task-") && !strings.Contains(view, "blocks: task-c") {
		// Selection starts at task-a which has no links; move to task-b.
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
		view = updated.(Model).View()
		if !strings.Contains(view, "blocks: task-c") {
			t.Errorf("view for task-b missing dependents line:\n%s", view)
		}
	}
}
