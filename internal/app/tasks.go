package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

// tasksLoadedMsg carries the full reloaded collection, archived rows
// included.
type tasksLoadedMsg struct {
	tasks []model.Task
	err   error
}

// opResultMsg is sent after a lifecycle operation completes.
type opResultMsg struct {
	action string
	err    error
}

// diagLoadedMsg carries a diagnostics snapshot of the data file.
type diagLoadedMsg struct {
	diag store.Diagnostics
	err  error
}

// loadTasks reloads the whole collection from the store.
func (m *Model) loadTasks() tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		tasks, err := mgr.Tasks(context.Background(), true)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

// createTask persists a new task from the form draft.
func (m *Model) createTask(d board.Draft) tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		_, err := mgr.CreateTask(context.Background(), d)
		return opResultMsg{action: "create task", err: err}
	}
}

// updateTask persists edits to an existing task.
func (m *Model) updateTask(id string, d board.Draft) tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		err := mgr.UpdateTask(context.Background(), id, d)
		return opResultMsg{action: "update task", err: err}
	}
}

// setStatus moves a task to another column.
func (m *Model) setStatus(id, status string) tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		err := mgr.SetStatus(context.Background(), id, status)
		return opResultMsg{action: "move task", err: err}
	}
}

// archiveTask soft-deletes a single task.
func (m *Model) archiveTask(id string) tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		err := mgr.ArchiveTask(context.Background(), id)
		return opResultMsg{action: "archive task", err: err}
	}
}

// archiveAllDone soft-deletes every task in the Done column.
func (m *Model) archiveAllDone() tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		err := mgr.ArchiveAllDone(context.Background())
		return opResultMsg{action: "archive done tasks", err: err}
	}
}

// restoreAll un-archives the whole collection.
func (m *Model) restoreAll() tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		err := mgr.RestoreAll(context.Background())
		return opResultMsg{action: "restore archived tasks", err: err}
	}
}

// loadDiagnostics inspects the data file.
func (m *Model) loadDiagnostics() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		diag, err := s.Diagnostics(context.Background())
		return diagLoadedMsg{diag: diag, err: err}
	}
}

// rebuildStore rewrites the data file through a verified temp file.
func (m *Model) rebuildStore() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.Rebuild(context.Background())
		return opResultMsg{action: "rebuild data file", err: err}
	}
}
