package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
)

// TaskCreatedMsg is dispatched when a new task is submitted via the form.
type TaskCreatedMsg struct {
	Draft board.Draft
}

// TaskUpdatedMsg is dispatched when an existing task is submitted via the form.
type TaskUpdatedMsg struct {
	ID    string
	Draft board.Draft
}

// FormCancelMsg is dispatched when the user cancels the form.
type FormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	status      string
	dueDate     string
	priority    string
	assignee    string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{status: model.StatusTodo, priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.status = model.StatusTodo
	m.fb.dueDate = time.Now().Format(model.DateLayout)
	m.fb.priority = model.PriorityMedium
	m.fb.assignee = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	m.editMode = true
	m.editID = t.ID
	m.fb.title = t.Title
	m.fb.description = t.Description
	m.fb.status = t.Status
	if !model.ValidStatus(m.fb.status) {
		m.fb.status = model.StatusTodo
	}
	m.fb.dueDate = t.DueDate
	m.fb.priority = t.Priority
	if m.fb.priority != model.PriorityLow &&
		m.fb.priority != model.PriorityMedium &&
		m.fb.priority != model.PriorityHigh {
		m.fb.priority = model.PriorityMedium
	}
	m.fb.assignee = t.Assignee
	m.form = m.buildForm()
	return m.form.Init()
}

// EditID returns the id of the task being edited, or "" in create mode.
func (m Model) EditID() string {
	return m.editID
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs doing?").
			Value(&m.fb.title),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewSelect[string]().
			Title("Status").
			Options(
				huh.NewOption(model.StatusTodo, model.StatusTodo),
				huh.NewOption(model.StatusInProgress, model.StatusInProgress),
				huh.NewOption(model.StatusDone, model.StatusDone),
			).
			Value(&m.fb.status),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption(model.PriorityLow, model.PriorityLow),
				huh.NewOption(model.PriorityMedium, model.PriorityMedium),
				huh.NewOption(model.PriorityHigh, model.PriorityHigh),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
		huh.NewInput().
			Title("Assignee").
			Placeholder("Optional").
			Value(&m.fb.assignee),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	draft := board.Draft{
		Title:       m.fb.title,
		Description: m.fb.description,
		Status:      m.fb.status,
		DueDate:     strings.TrimSpace(m.fb.dueDate),
		Priority:    m.fb.priority,
		Assignee:    m.fb.assignee,
	}

	if m.editMode {
		id := m.editID
		return func() tea.Msg { return TaskUpdatedMsg{ID: id, Draft: draft} }
	}
	return func() tea.Msg { return TaskCreatedMsg{Draft: draft} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
