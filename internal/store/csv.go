package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nhle/kanban/internal/model"
)

// header lists the CSV columns in their fixed on-disk order.
var header = []string{
	"title", "description", "status", "due_date",
	"priority", "assignee", "created_date", "id", "archived",
}

// ErrVerifyMismatch is returned when a re-read of the data file after a
// save does not match the collection that was written.
var ErrVerifyMismatch = errors.New("persisted data does not match written collection")

// CSVStore implements the Store interface on a single CSV file that is
// rewritten whole on every save.
type CSVStore struct {
	path        string
	previewRows int
}

// NewCSVStore creates a store backed by the CSV file at path, creating
// the parent directory if needed. previewRows controls how many tasks
// Diagnostics includes in its preview; values below 1 default to 3.
func NewCSVStore(path string, previewRows int) (*CSVStore, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
		}
	}
	if previewRows < 1 {
		previewRows = 3
	}
	return &CSVStore{path: path, previewRows: previewRows}, nil
}

// Path returns the location of the underlying data file.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads the full task collection from disk. A missing file yields
// an empty collection. An unparsable file is salvaged row by row; rows
// that cannot be recovered are discarded rather than failing the load.
func (s *CSVStore) Load(ctx context.Context, includeArchived bool) ([]model.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading data file %s: %w", s.path, err)
	}

	records, err := parseRecords(data)
	if err != nil {
		records = salvageRecords(data)
	}

	tasks := tasksFromRecords(records)
	if includeArchived {
		return tasks, nil
	}

	active := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Archived {
			active = append(active, t)
		}
	}
	return active, nil
}

// Save overwrites the data file with the given collection and verifies
// the result by reading it back. A failed write or verification is
// retried once with a writer that quotes every field before the error
// is reported.
func (s *CSVStore) Save(ctx context.Context, tasks []model.Task) error {
	rows := recordsFromTasks(tasks)

	err := s.writeStandard(rows)
	if err == nil {
		if err = s.verify(len(tasks)); err == nil {
			return nil
		}
	}

	// Conservative retry: quote every field explicitly.
	if werr := s.writeQuoted(rows); werr != nil {
		return fmt.Errorf("rewriting %s after failed save (%v): %w", s.path, err, werr)
	}
	if verr := s.verify(len(tasks)); verr != nil {
		return fmt.Errorf("verifying fallback write of %s: %w", s.path, verr)
	}
	return nil
}

// Rebuild rewrites the data file through a verified temp file and keeps
// a backup of the previous contents.
func (s *CSVStore) Rebuild(ctx context.Context) error {
	tasks, err := s.Load(ctx, true)
	if err != nil {
		return err
	}

	tmp := s.path + ".new"
	rows := recordsFromTasks(tasks)
	if err := writeCSV(tmp, rows); err != nil {
		return fmt.Errorf("writing temp file %s: %w", tmp, err)
	}

	tmpData, err := os.ReadFile(tmp)
	if err != nil {
		return fmt.Errorf("reading back temp file %s: %w", tmp, err)
	}
	if _, err := parseRecords(tmpData); err != nil {
		return fmt.Errorf("verifying temp file %s: %w", tmp, err)
	}

	if prev, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.path+".backup", prev, 0o644); err != nil {
			return fmt.Errorf("writing backup of %s: %w", s.path, err)
		}
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing %s with rebuilt file: %w", s.path, err)
	}
	return nil
}

// Diagnostics inspects the data file without modifying it. When the
// file exists but cannot be parsed, the returned snapshot still carries
// its size alongside the error.
func (s *CSVStore) Diagnostics(ctx context.Context) (Diagnostics, error) {
	diag := Diagnostics{Path: s.path}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return diag, nil
		}
		return diag, fmt.Errorf("inspecting data file %s: %w", s.path, err)
	}
	diag.Exists = true
	diag.SizeBytes = info.Size()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return diag, fmt.Errorf("reading data file %s: %w", s.path, err)
	}

	records, err := parseRecords(data)
	if err != nil {
		return diag, fmt.Errorf("parsing data file %s: %w", s.path, err)
	}
	if len(records) > 0 {
		diag.Columns = len(records[0])
		diag.Rows = len(records) - 1
	}

	tasks := tasksFromRecords(records)
	if len(tasks) > s.previewRows {
		tasks = tasks[:s.previewRows]
	}
	diag.Preview = tasks

	return diag, nil
}

// verify re-reads the data file and checks that it parses and holds the
// expected number of data rows.
func (s *CSVStore) verify(wantRows int) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("re-reading %s: %w", s.path, err)
	}
	records, err := parseRecords(data)
	if err != nil {
		return fmt.Errorf("re-parsing %s: %w", s.path, err)
	}
	if len(records) == 0 || len(records)-1 != wantRows {
		got := len(records)
		if got > 0 {
			got--
		}
		return fmt.Errorf("%w: wrote %d rows, read back %d", ErrVerifyMismatch, wantRows, got)
	}
	return nil
}

// writeStandard writes header and rows with the default CSV encoder.
func (s *CSVStore) writeStandard(rows [][]string) error {
	return writeCSV(s.path, rows)
}

// writeQuoted writes header and rows with every field quoted, the
// fallback encoding used when the standard write cannot be verified.
func (s *CSVStore) writeQuoted(rows [][]string) error {
	var b strings.Builder
	for _, row := range append([][]string{header}, rows...) {
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// writeCSV writes the header row followed by rows to path.
func writeCSV(path string, rows [][]string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing rows: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// parseRecords parses raw CSV bytes, tolerating ragged row lengths so a
// short row degrades to defaulted fields instead of a failed load.
func parseRecords(data []byte) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return records, nil
}

// salvageRecords recovers whatever rows still parse from a corrupt
// file, reading line by line with lazy quoting. Unrecoverable lines are
// dropped; worst case the result is just the schema header.
func salvageRecords(data []byte) [][]string {
	records := [][]string{header}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r := csv.NewReader(strings.NewReader(line))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		row, err := r.Read()
		if err != nil {
			continue
		}
		// Skip a recognizable header line.
		if i == 0 && len(row) > 0 && row[0] == "title" {
			continue
		}
		records = append(records, row)
	}
	return records
}

// recordsFromTasks converts tasks to CSV rows, flattening embedded
// newlines since the row-per-task layout cannot hold them reliably.
func recordsFromTasks(tasks []model.Task) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			sanitizeField(t.Title),
			sanitizeField(t.Description),
			sanitizeField(t.Status),
			sanitizeField(t.DueDate),
			sanitizeField(t.Priority),
			sanitizeField(t.Assignee),
			sanitizeField(t.CreatedDate),
			sanitizeField(t.ID),
			strconv.FormatBool(t.Archived),
		})
	}
	return rows
}

// tasksFromRecords converts parsed CSV records into tasks, mapping
// columns by header name so column reordering or missing optional
// columns do not break the load.
func tasksFromRecords(records [][]string) []model.Task {
	if len(records) == 0 {
		return nil
	}

	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	tasks := make([]model.Task, 0, len(records)-1)
	for _, row := range records[1:] {
		t := model.Task{
			Title:       field(row, "title"),
			Description: field(row, "description"),
			Status:      field(row, "status"),
			DueDate:     field(row, "due_date"),
			Priority:    field(row, "priority"),
			Assignee:    field(row, "assignee"),
			CreatedDate: field(row, "created_date"),
			ID:          field(row, "id"),
		}
		if v, err := strconv.ParseBool(field(row, "archived")); err == nil {
			t.Archived = v
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// sanitizeField collapses line breaks to spaces before persistence.
func sanitizeField(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}
