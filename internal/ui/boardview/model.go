package boardview

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
)

// Model renders the three-column board and tracks the focused card.
type Model struct {
	keys *keys.KeyMap

	tasks   []model.Task
	columns [len(columnOrder)][]model.Task

	col    int
	cursor [len(columnOrder)]int

	search    textinput.Model
	searching bool

	width  int
	height int
	now    func() time.Time
}

// columnOrder fixes the left-to-right board layout.
var columnOrder = [...]string{
	model.StatusTodo,
	model.StatusInProgress,
	model.StatusDone,
}

// New creates a board view model.
func New(k *keys.KeyMap, width, height int) Model {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.Prompt = "/ "
	search.CharLimit = 80

	return Model{
		keys:   k,
		search: search,
		width:  width,
		height: height,
		now:    time.Now,
	}
}

// SetTasks replaces the displayed collection and rebuilds the columns,
// keeping the cursor on a valid card.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = tasks
	m.rebuildColumns()
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the focused task, or nil when the focused column is
// empty.
func (m Model) Selected() *model.Task {
	col := m.columns[m.col]
	if len(col) == 0 {
		return nil
	}
	i := m.cursor[m.col]
	if i >= len(col) {
		i = len(col) - 1
	}
	t := col[i]
	return &t
}

// Searching reports whether the search input currently has focus.
func (m Model) Searching() bool {
	return m.searching
}

// Query returns the active search query.
func (m Model) Query() string {
	return m.search.Value()
}

// Update handles navigation and search input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searching {
		switch keyMsg.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.rebuildColumns()
			return m, nil
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.rebuildColumns()
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(keyMsg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(keyMsg, m.keys.Right):
		if m.col < len(columnOrder)-1 {
			m.col++
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor[m.col] < len(m.columns[m.col])-1 {
			m.cursor[m.col]++
		}
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor[m.col] > 0 {
			m.cursor[m.col]--
		}
	}

	return m, nil
}

// View renders the search line and the three board columns.
func (m Model) View() string {
	colWidth := m.width/len(columnOrder) - 4
	if colWidth < 16 {
		colWidth = 16
	}

	rendered := make([]string, 0, len(columnOrder))
	for ci, status := range columnOrder {
		rendered = append(rendered, m.renderColumn(ci, status, colWidth))
	}
	boardRow := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	if m.searching || m.search.Value() != "" {
		return lipgloss.JoinVertical(lipgloss.Left, m.search.View(), boardRow)
	}
	return boardRow
}

// renderColumn draws one status column with its header and card stack.
func (m Model) renderColumn(ci int, status string, width int) string {
	tasks := m.columns[ci]

	title := theme.ColumnTitleStyle.Render(
		theme.StatusStyle(status).Render(status) +
			theme.HelpStyle.Render(fmt.Sprintf(" (%d)", len(tasks))),
	)

	parts := []string{title}
	now := m.now()
	for i, t := range tasks {
		selected := ci == m.col && i == m.cursor[ci]
		parts = append(parts, renderCard(t, selected, width-4, now))
	}
	if len(tasks) == 0 {
		parts = append(parts, theme.HelpStyle.Render("empty"))
	}

	style := theme.ColumnStyle.Width(width)
	if ci == m.col {
		style = style.BorderForeground(theme.ColorBlue)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// rebuildColumns re-derives the per-status stacks from the task list
// and the current search query.
func (m *Model) rebuildColumns() {
	visible := board.Search(m.tasks, m.search.Value())
	for ci, status := range columnOrder {
		m.columns[ci] = board.ByStatus(visible, status)
		if m.cursor[ci] >= len(m.columns[ci]) {
			m.cursor[ci] = len(m.columns[ci]) - 1
		}
		if m.cursor[ci] < 0 {
			m.cursor[ci] = 0
		}
	}
}
