package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

// ErrTaskNotFound is returned when an operation targets an id that is
// not present in the persisted collection.
var ErrTaskNotFound = errors.New("task not found")

// Draft carries the user-editable fields of a task into create and
// update operations.
type Draft struct {
	Title       string
	Description string
	Status      string
	DueDate     string
	Priority    string
	Assignee    string
}

// Manager implements every task lifecycle operation as a
// load-mutate-save sequence over the full persisted collection,
// archived tasks included. The store is the single source of truth;
// nothing is cached between operations.
type Manager struct {
	store store.Store
	now   func() time.Time
}

// New creates a Manager backed by the given store.
func New(s store.Store) *Manager {
	return &Manager{store: s, now: time.Now}
}

// Tasks returns the current collection, optionally including archived
// tasks.
func (m *Manager) Tasks(ctx context.Context, includeArchived bool) ([]model.Task, error) {
	return m.store.Load(ctx, includeArchived)
}

// CreateTask appends a new task built from the draft. The id and
// creation date are assigned here; a draft without a valid status lands
// in the first column.
func (m *Manager) CreateTask(ctx context.Context, d Draft) (model.Task, error) {
	tasks, err := m.store.Load(ctx, true)
	if err != nil {
		return model.Task{}, fmt.Errorf("loading tasks: %w", err)
	}

	task := model.Task{
		ID:          uuid.New().String(),
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		DueDate:     d.DueDate,
		Priority:    d.Priority,
		Assignee:    d.Assignee,
		CreatedDate: m.now().Format(model.DateLayout),
		Archived:    false,
	}
	if !model.ValidStatus(task.Status) {
		task.Status = model.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	tasks = append(tasks, task)
	if err := m.store.Save(ctx, tasks); err != nil {
		return model.Task{}, fmt.Errorf("saving new task: %w", err)
	}
	return task, nil
}

// UpdateTask overwrites the mutable fields of the task with the given
// id. Updating a task always un-archives it. An unknown id is a
// distinct failure so the caller can surface it.
func (m *Manager) UpdateTask(ctx context.Context, id string, d Draft) error {
	tasks, err := m.store.Load(ctx, true)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	i := indexByID(tasks, id)
	if i < 0 {
		return fmt.Errorf("updating task %s: %w", id, ErrTaskNotFound)
	}

	tasks[i].Title = d.Title
	tasks[i].Description = d.Description
	tasks[i].Status = d.Status
	tasks[i].DueDate = d.DueDate
	tasks[i].Priority = d.Priority
	tasks[i].Assignee = d.Assignee
	tasks[i].Archived = false

	if err := m.store.Save(ctx, tasks); err != nil {
		return fmt.Errorf("saving updated task %s: %w", id, err)
	}
	return nil
}

// SetStatus moves a task to another column and un-archives it. After
// saving, the collection is reloaded to confirm the new status actually
// reached disk.
func (m *Manager) SetStatus(ctx context.Context, id, status string) error {
	if !model.ValidStatus(status) {
		return fmt.Errorf("setting status of task %s: unknown status %q", id, status)
	}

	tasks, err := m.store.Load(ctx, true)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	i := indexByID(tasks, id)
	if i < 0 {
		return fmt.Errorf("setting status of task %s: %w", id, ErrTaskNotFound)
	}
	tasks[i].Status = status
	tasks[i].Archived = false

	if err := m.store.Save(ctx, tasks); err != nil {
		return fmt.Errorf("saving task %s: %w", id, err)
	}

	// Defensive re-read: a silently failed write must not look like a
	// successful move.
	verify, err := m.store.Load(ctx, true)
	if err != nil {
		return fmt.Errorf("verifying status of task %s: %w", id, err)
	}
	j := indexByID(verify, id)
	if j < 0 || verify[j].Status != status {
		return fmt.Errorf("verifying status of task %s: %w", id, store.ErrVerifyMismatch)
	}
	return nil
}

// ArchiveTask soft-deletes the task with the given id. Archiving an
// unknown id is a no-op success, so a stale or double-clicked action
// does not surface as an error.
func (m *Manager) ArchiveTask(ctx context.Context, id string) error {
	tasks, err := m.store.Load(ctx, true)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	if i := indexByID(tasks, id); i >= 0 {
		tasks[i].Archived = true
	}

	if err := m.store.Save(ctx, tasks); err != nil {
		return fmt.Errorf("archiving task %s: %w", id, err)
	}
	return nil
}

// ArchiveAllDone soft-deletes every task in the Done column.
func (m *Manager) ArchiveAllDone(ctx context.Context) error {
	tasks, err := m.store.Load(ctx, true)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	for i := range tasks {
		if tasks[i].Status == model.StatusDone {
			tasks[i].Archived = true
		}
	}

	if err := m.store.Save(ctx, tasks); err != nil {
		return fmt.Errorf("archiving done tasks: %w", err)
	}
	return nil
}

// RestoreAll clears the archived flag on every task.
func (m *Manager) RestoreAll(ctx context.Context) error {
	tasks, err := m.store.Load(ctx, true)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	for i := range tasks {
		tasks[i].Archived = false
	}

	if err := m.store.Save(ctx, tasks); err != nil {
		return fmt.Errorf("restoring archived tasks: %w", err)
	}
	return nil
}

// Search filters tasks by a case-insensitive title/description match.
func Search(tasks []model.Task, query string) []model.Task {
	if query == "" {
		return tasks
	}
	var out []model.Task
	for _, t := range tasks {
		if t.Matches(query) {
			out = append(out, t)
		}
	}
	return out
}

// ByStatus returns the tasks in a single board column.
func ByStatus(tasks []model.Task, status string) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// indexByID returns the position of the task with the given id, or -1.
func indexByID(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
