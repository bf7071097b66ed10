package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhle/kanban/internal/model"
)

func newTestStore(t *testing.T) *CSVStore {
	t.Helper()
	s, err := NewCSVStore(filepath.Join(t.TempDir(), "tasks.csv"), 3)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return s
}

func sampleTasks() []model.Task {
	return []model.Task{
		{
			ID:          "id-1",
			Title:       "Write report",
			Description: "Quarterly numbers",
			Status:      model.StatusTodo,
			DueDate:     "2026-09-15",
			Priority:    model.PriorityHigh,
			Assignee:    "sam",
			CreatedDate: "2026-08-01",
		},
		{
			ID:          "id-2",
			Title:       "Review PR",
			Status:      model.StatusDone,
			Priority:    model.PriorityLow,
			CreatedDate: "2026-08-02",
			Archived:    true,
		},
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)

	tasks, err := s.Load(context.Background(), true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks: got %d, want 0", len(tasks))
	}

	// Load alone must not create the file; the first save does.
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Errorf("data file should not exist after a pure load")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := sampleTasks()

	if err := s.Save(context.Background(), want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(context.Background(), true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("tasks: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSaveWritesHeaderForEmptyCollection(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading data file: %v", err)
	}
	first := strings.SplitN(string(data), "\n", 2)[0]
	if first != "title,description,status,due_date,priority,assignee,created_date,id,archived" {
		t.Errorf("header row: got %q", first)
	}
}

func TestSaveSanitizesNewlines(t *testing.T) {
	s := newTestStore(t)
	tasks := []model.Task{{
		ID:          "id-1",
		Title:       "multi\nline",
		Description: "first\r\nsecond\rthird",
		Status:      model.StatusTodo,
		CreatedDate: "2026-08-01",
	}}

	if err := s.Save(context.Background(), tasks); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(context.Background(), true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got[0].Title != "multi line" {
		t.Errorf("title: got %q, want %q", got[0].Title, "multi line")
	}
	if got[0].Description != "first second third" {
		t.Errorf("description: got %q, want %q", got[0].Description, "first second third")
	}
}

func TestLoadFiltersArchived(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(context.Background(), sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	active, err := s.Load(context.Background(), false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, task := range active {
		if task.Archived {
			t.Errorf("active view contains archived task %s", task.ID)
		}
	}
	if len(active) != 1 {
		t.Errorf("active tasks: got %d, want 1", len(active))
	}

	all, err := s.Load(context.Background(), true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all tasks: got %d, want 2", len(all))
	}
}

func TestLoadDefaultsMissingColumns(t *testing.T) {
	s := newTestStore(t)

	// Older files may lack the description and archived columns.
	content := "title,status,due_date,priority,assignee,created_date,id\n" +
		"Old task,To Do,,Medium,,2026-01-01,id-old\n"
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	tasks, err := s.Load(context.Background(), true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("tasks: got %d, want 1", len(tasks))
	}
	if tasks[0].Description != "" {
		t.Errorf("description: got %q, want empty", tasks[0].Description)
	}
	if tasks[0].Archived {
		t.Errorf("archived should default to false")
	}
	if tasks[0].ID != "id-old" {
		t.Errorf("id: got %q, want id-old", tasks[0].ID)
	}
}

func TestLoadAcceptsCapitalizedBooleans(t *testing.T) {
	s := newTestStore(t)

	// Files written by other tools may capitalize the boolean tokens.
	content := "title,description,status,due_date,priority,assignee,created_date,id,archived\n" +
		"A,,Done,,Low,,2026-01-01,id-a,True\n" +
		"B,,To Do,,Low,,2026-01-01,id-b,False\n"
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	tasks, err := s.Load(context.Background(), true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !tasks[0].Archived {
		t.Errorf("task A should be archived")
	}
	if tasks[1].Archived {
		t.Errorf("task B should not be archived")
	}
}

func TestLoadSalvagesCorruptFile(t *testing.T) {
	s := newTestStore(t)

	content := "title,description,status,due_date,priority,assignee,created_date,id,archived\n" +
		"good,desc,To Do,,Medium,,2026-08-01,id-1,false\n" +
		"\"broken,row\n" +
		"other,desc,Done,,High,,2026-08-01,id-2,true\n"
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	tasks, err := s.Load(context.Background(), true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ids := make(map[string]bool)
	for _, task := range tasks {
		ids[task.ID] = true
	}
	if !ids["id-1"] || !ids["id-2"] {
		t.Errorf("salvage lost intact rows, got ids %v", ids)
	}
}

func TestLoadFallsBackToEmptyOnUnrecoverableFile(t *testing.T) {
	s := newTestStore(t)

	if err := os.WriteFile(s.Path(), []byte("\x00\x01\x02"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	tasks, err := s.Load(context.Background(), true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, task := range tasks {
		if task.ID != "" {
			t.Errorf("unexpected task recovered from binary garbage: %+v", task)
		}
	}
}

func TestQuotedFallbackOutputIsReadable(t *testing.T) {
	s := newTestStore(t)
	tasks := []model.Task{{
		ID:          "id-1",
		Title:       `He said "go"`,
		Description: "a,b,c",
		Status:      model.StatusTodo,
		CreatedDate: "2026-08-01",
	}}

	if err := s.writeQuoted(recordsFromTasks(tasks)); err != nil {
		t.Fatalf("writeQuoted failed: %v", err)
	}

	got, err := s.Load(context.Background(), true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got[0].Title != `He said "go"` {
		t.Errorf("title: got %q", got[0].Title)
	}
	if got[0].Description != "a,b,c" {
		t.Errorf("description: got %q", got[0].Description)
	}
}

func TestRebuildKeepsBackupAndData(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(context.Background(), sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := s.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	if _, err := os.Stat(s.Path() + ".backup"); err != nil {
		t.Errorf("backup file missing: %v", err)
	}

	tasks, err := s.Load(context.Background(), true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("tasks after rebuild: got %d, want 2", len(tasks))
	}
}

func TestDiagnostics(t *testing.T) {
	s := newTestStore(t)

	diag, err := s.Diagnostics(context.Background())
	if err != nil {
		t.Fatalf("Diagnostics failed: %v", err)
	}
	if diag.Exists {
		t.Errorf("file should not exist yet")
	}

	if err := s.Save(context.Background(), sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	diag, err = s.Diagnostics(context.Background())
	if err != nil {
		t.Fatalf("Diagnostics failed: %v", err)
	}
	if !diag.Exists {
		t.Fatalf("file should exist")
	}
	if diag.SizeBytes == 0 {
		t.Errorf("size should be non-zero")
	}
	if diag.Rows != 2 {
		t.Errorf("rows: got %d, want 2", diag.Rows)
	}
	if diag.Columns != 9 {
		t.Errorf("columns: got %d, want 9", diag.Columns)
	}
	if len(diag.Preview) != 2 {
		t.Errorf("preview: got %d tasks, want 2", len(diag.Preview))
	}
}
