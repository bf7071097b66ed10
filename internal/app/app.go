package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
	"github.com/nhle/kanban/internal/ui"
	"github.com/nhle/kanban/internal/ui/boardview"
	"github.com/nhle/kanban/internal/ui/diagview"
	"github.com/nhle/kanban/internal/ui/helpview"
	"github.com/nhle/kanban/internal/ui/statsview"
	"github.com/nhle/kanban/internal/ui/taskform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewForm
	ViewStats
	ViewDiagnostics
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the lifecycle manager and store.
type Model struct {
	currentView ViewState
	layout      ui.Layout
	manager     *board.Manager
	store       store.Store
	keys        *keys.KeyMap

	boardView boardview.Model
	formView  taskform.Model
	statsView statsview.Model
	diagView  diagview.Model
	helpView  helpview.Model

	ready  bool
	notice string
}

// New creates the root application model around a lifecycle manager and
// its backing store.
func New(mgr *board.Manager, s store.Store) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewBoard,
		manager:     mgr,
		store:       s,
		keys:        k,
		boardView:   boardview.New(k, 80, 24),
		formView:    taskform.New(80, 24),
		statsView:   statsview.New(80, 24),
		diagView:    diagview.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
}

// Init loads the board for the first render.
func (m Model) Init() tea.Cmd {
	return m.loadTasks()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.boardView.SetSize(w, h)
		m.formView.SetSize(w, h)
		m.statsView.SetSize(w, h)
		m.diagView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		// Forward to the active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case tasksLoadedMsg:
		if msg.err != nil {
			m.notice = "load failed: " + msg.err.Error()
			return m, nil
		}
		active := make([]model.Task, 0, len(msg.tasks))
		archived := 0
		for _, t := range msg.tasks {
			if t.Archived {
				archived++
				continue
			}
			active = append(active, t)
		}
		m.boardView.SetTasks(active)
		m.statsView.SetStats(board.ComputeStats(active), archived)
		return m, nil

	case opResultMsg:
		if msg.err != nil {
			m.notice = msg.action + " failed: " + msg.err.Error()
		} else {
			m.notice = msg.action + " ok"
		}
		if m.currentView == ViewForm {
			m.currentView = ViewBoard
		}
		cmds := []tea.Cmd{m.loadTasks()}
		if m.currentView == ViewDiagnostics {
			cmds = append(cmds, m.loadDiagnostics())
		}
		return m, tea.Batch(cmds...)

	case diagLoadedMsg:
		m.diagView.SetDiagnostics(msg.diag, msg.err)
		return m, nil

	case taskform.TaskCreatedMsg:
		return m, m.createTask(msg.Draft)

	case taskform.TaskUpdatedMsg:
		return m, m.updateTask(msg.ID, msg.Draft)

	case taskform.FormCancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case diagview.RebuildRequestedMsg:
		return m, m.rebuildStore()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

// handleKey routes key presses based on the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The form owns every key while it is open.
	if m.currentView == ViewForm {
		var cmd tea.Cmd
		m.formView, cmd = m.formView.Update(msg)
		return m, cmd
	}

	// While searching, the board owns everything except ctrl+c.
	if m.currentView == ViewBoard && m.boardView.Searching() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.boardView, cmd = m.boardView.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.currentView = ViewBoard
		return m, nil

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = ViewBoard
		} else {
			m.currentView = ViewHelp
		}
		return m, nil

	case key.Matches(msg, m.keys.Stats):
		m.currentView = ViewStats
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		m.currentView = ViewDiagnostics
		return m, m.loadDiagnostics()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadTasks()
	}

	if m.currentView == ViewDiagnostics {
		var cmd tea.Cmd
		m.diagView, cmd = m.diagView.Update(msg)
		return m, cmd
	}
	if m.currentView != ViewBoard {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.New):
		m.currentView = ViewForm
		return m, m.formView.StartCreate()

	case key.Matches(msg, m.keys.Edit):
		t := m.boardView.Selected()
		if t == nil {
			return m, nil
		}
		m.currentView = ViewForm
		return m, m.formView.StartEdit(*t)

	case key.Matches(msg, m.keys.MoveRight):
		t := m.boardView.Selected()
		if next, ok := adjacentStatus(t, 1); ok {
			return m, m.setStatus(t.ID, next)
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveLeft):
		t := m.boardView.Selected()
		if prev, ok := adjacentStatus(t, -1); ok {
			return m, m.setStatus(t.ID, prev)
		}
		return m, nil

	case key.Matches(msg, m.keys.Archive):
		if t := m.boardView.Selected(); t != nil {
			return m, m.archiveTask(t.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.ArchiveDone):
		return m, m.archiveAllDone()

	case key.Matches(msg, m.keys.RestoreAll):
		return m, m.restoreAll()
	}

	var cmd tea.Cmd
	m.boardView, cmd = m.boardView.Update(msg)
	return m, cmd
}

// updateActiveView forwards non-key messages to the active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewDiagnostics:
		m.diagView, cmd = m.diagView.Update(msg)
	}
	return m, cmd
}

// View renders the active view inside the shared frame.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var content string
	switch m.currentView {
	case ViewForm:
		content = m.formView.View()
	case ViewStats:
		content = m.statsView.View()
	case ViewDiagnostics:
		content = m.diagView.View()
	case ViewHelp:
		content = m.helpView.View()
	default:
		content = m.boardView.View()
	}

	header := m.layout.RenderHeader("Kanban Board", m.notice)
	statusBar := m.layout.RenderStatusBar(m.hints())
	return m.layout.RenderWithFrame(header, content, statusBar)
}

// hints returns the status bar text for the active view.
func (m Model) hints() string {
	switch m.currentView {
	case ViewForm:
		return "enter submit • esc cancel"
	case ViewStats, ViewHelp:
		return "esc back • q quit"
	case ViewDiagnostics:
		return "R rebuild • esc back • q quit"
	default:
		return "n new • e edit • H/L move • x archive • / search • s stats • ? help • q quit"
	}
}

// adjacentStatus returns the workflow state one column to the left
// (delta -1) or right (delta +1) of the task's current column.
func adjacentStatus(t *model.Task, delta int) (string, bool) {
	if t == nil {
		return "", false
	}
	for i, s := range model.Statuses {
		if s == t.Status {
			j := i + delta
			if j < 0 || j >= len(model.Statuses) {
				return "", false
			}
			return model.Statuses[j], true
		}
	}
	return "", false
}
