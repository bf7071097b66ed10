package testutil

import (
	"path/filepath"
	"testing"

	"github.com/nhle/kanban/internal/store"
)

// NewTestStore creates a CSVStore backed by a file in a per-test temp
// directory, which the testing package removes when the test completes.
func NewTestStore(t *testing.T) *store.CSVStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.csv")
	s, err := store.NewCSVStore(path, 3)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	return s
}
