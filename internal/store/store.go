package store

import (
	"context"

	"github.com/nhle/kanban/internal/model"
)

// Diagnostics is a read-only snapshot of the persisted collection,
// used by the troubleshooting view.
type Diagnostics struct {
	Path      string
	Exists    bool
	SizeBytes int64
	Rows      int
	Columns   int
	Preview   []model.Task
}

// Store defines the persistence contract for the task collection.
// The collection is always read and written whole; there is no
// incremental update path.
type Store interface {
	// Load reads the full collection. When includeArchived is false,
	// archived tasks are filtered out. A missing data file yields an
	// empty collection; an unreadable one is repaired best-effort.
	Load(ctx context.Context, includeArchived bool) ([]model.Task, error)

	// Save overwrites the persisted collection with tasks and verifies
	// the write by reading it back.
	Save(ctx context.Context, tasks []model.Task) error

	// Rebuild rewrites the data file through a verified temp file,
	// keeping a backup of the previous contents.
	Rebuild(ctx context.Context) error

	// Diagnostics inspects the data file without modifying it.
	Diagnostics(ctx context.Context) (Diagnostics, error)
}
