// Package tui is the interactive plan viewer: a live table of a plan's
// tasks with their dependency state, filterable by task ID, reloading when
// the backing store file changes on disk.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/launchmap/launchmap/internal/depgraph"
)

// Options configures the plan viewer.
type Options struct {
	PlanID    string
	Principal string

	// WatchPath, when set, is a file whose writes trigger a reload.
	WatchPath string

	// ShowCompleted includes completed and skipped tasks in the table.
	ShowCompleted bool
}

// row is one task line: the task plus its derived display state and
// direct links.
type row struct {
	task          *depgraph.Task
	state         string
	prerequisites []string
	dependents    []string
}

// Model is the Bubbletea model for the plan viewer.
type Model struct {
	engine *depgraph.Engine
	tasks  depgraph.TaskDirectory
	opts   Options

	filter  textinput.Model
	rows    []row
	cursor  int
	loadErr error

	watcher *fsnotify.Watcher
	width   int
	height  int
}

type rowsLoadedMsg struct {
	rows []row
	err  error
}

type storeChangedMsg struct{}

// NewModel creates the viewer model. The watcher may be nil when live
// reload is disabled.
func NewModel(engine *depgraph.Engine, tasks depgraph.TaskDirectory, watcher *fsnotify.Watcher, opts Options) Model {
	filter := textinput.New()
	filter.Placeholder = "filter tasks"
	filter.Prompt = "/"
	filter.CharLimit = 64

	return Model{
		engine:  engine,
		tasks:   tasks,
		opts:    opts,
		filter:  filter,
		watcher: watcher,
	}
}

// Init starts the initial load and, if watching, the change listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadRows()}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForChange())
	}
	return tea.Batch(cmds...)
}

// loadRows reads the plan's tasks and derives each task's display state.
func (m Model) loadRows() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		planTasks, err := m.tasks.TasksForPlan(ctx, m.opts.PlanID)
		if err != nil {
			return rowsLoadedMsg{err: err}
		}
		depMap, err := m.engine.PlanDependencyMap(ctx, m.opts.Principal, m.opts.PlanID)
		if err != nil {
			return rowsLoadedMsg{err: err}
		}

		rows := make([]row, 0, len(planTasks))
		for _, task := range planTasks {
			state := string(task.Status)
			if task.Status == depgraph.StatusNotStarted {
				blocked, err := m.engine.IsBlocked(ctx, task.ID)
				if err != nil {
					return rowsLoadedMsg{err: err}
				}
				if blocked {
					state = "blocked"
				} else {
					state = "ready"
				}
			}

			r := row{task: task, state: state}
			if links, ok := depMap[task.ID]; ok {
				r.prerequisites = links.Prerequisites
				r.dependents = links.Dependents
			}
			rows = append(rows, r)
		}

		sort.Slice(rows, func(i, j int) bool { return rows[i].task.ID < rows[j].task.ID })
		return rowsLoadedMsg{rows: rows}
	}
}

// waitForChange blocks on the next relevant watcher event.
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-m.watcher.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					return storeChangedMsg{}
				}
			case _, ok := <-m.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case rowsLoadedMsg:
		m.rows = msg.rows
		m.loadErr = msg.err
		if m.cursor >= len(m.visibleRows()) {
			m.cursor = 0
		}
		return m, nil

	case storeChangedMsg:
		return m, tea.Batch(m.loadRows(), m.waitForChange())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filter.Focused() {
		switch msg.String() {
		case "enter", "esc":
			m.filter.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.cursor = 0
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visibleRows())-1 {
			m.cursor++
		}
	case "/":
		m.filter.Focus()
		return m, textinput.Blink
	case "r":
		return m, m.loadRows()
	}
	return m, nil
}

// visibleRows applies the filter and the completed-task toggle.
func (m Model) visibleRows() []row {
	needle := strings.ToLower(m.filter.Value())

	var visible []row
	for _, r := range m.rows {
		if !m.opts.ShowCompleted && r.task.Status.IsTerminal() {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.task.ID), needle) {
			continue
		}
		visible = append(visible, r)
	}
	return visible
}

// View renders the table.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Plan %s", m.opts.PlanID)))
	b.WriteString("\n\n")

	if m.loadErr != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("error: %v", m.loadErr)))
		b.WriteString("\n")
		return b.String()
	}

	visible := m.visibleRows()
	if len(visible) == 0 {
		b.WriteString(helpStyle.Render("no tasks to show"))
		b.WriteString("\n")
	}

	for i, r := range visible {
		line := fmt.Sprintf("%-30s %s", r.task.ID, r.state)
		line = stateStyle(r.state).Render(line)
		if i == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.cursor < len(visible) {
		sel := visible[m.cursor]
		b.WriteString("\n")
		if len(sel.prerequisites) > 0 {
			b.WriteString(helpStyle.Render("needs: " + strings.Join(sel.prerequisites, ", ")))
			b.WriteString("\n")
		}
		if len(sel.dependents) > 0 {
			b.WriteString(helpStyle.Render("blocks: " + strings.Join(sel.dependents, ", ")))
			b.WriteString("\n")
		}
	}

	if m.filter.Focused() || m.filter.Value() != "" {
		b.WriteString("\n")
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k move · / filter · r reload · q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run opens the viewer and blocks until the user quits.
func Run(engine *depgraph.Engine, tasks depgraph.TaskDirectory, opts Options) error {
	var watcher *fsnotify.Watcher
	if opts.WatchPath != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("starting store watcher: %w", err)
		}
		if err := w.Add(opts.WatchPath); err != nil {
			// The store file may not exist yet; fall back to manual reload.
			_ = w.Close()
			watcher = nil
		} else {
			watcher = w
			defer func() { _ = w.Close() }()
		}
	}

	model := NewModel(engine, tasks, watcher, opts)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
