package model

import (
	"strings"
	"time"
)

// Workflow state constants. The board has exactly three columns.
const (
	StatusTodo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

// Priority constants.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Statuses lists the workflow states in board column order.
var Statuses = []string{StatusTodo, StatusInProgress, StatusDone}

// Priorities lists the priority tiers from lowest to highest.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// DateLayout is the on-disk format for due and creation dates.
const DateLayout = "2006-01-02"

// Task is a single card on the board. Dates are kept as plain
// "YYYY-MM-DD" strings to match the persisted CSV layout; an empty or
// malformed DueDate simply means the task has no effective deadline.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      string
	DueDate     string
	Priority    string
	Assignee    string
	CreatedDate string
	Archived    bool
}

// DueStatus classifies a task's due date relative to a reference day.
type DueStatus int

const (
	DueNormal DueStatus = iota
	DueSoon
	DueOverdue
)

// DueSoonWindowDays is how many days ahead of the deadline a task is
// flagged as due soon.
const DueSoonWindowDays = 2

// DueStatusOn classifies the task's due date relative to now.
// Missing or unparsable dates are never overdue or due soon.
func (t Task) DueStatusOn(now time.Time) DueStatus {
	due, err := time.Parse(DateLayout, t.DueDate)
	if err != nil {
		return DueNormal
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)

	switch {
	case days < 0:
		return DueOverdue
	case days <= DueSoonWindowDays:
		return DueSoon
	default:
		return DueNormal
	}
}

// ValidStatus reports whether s is one of the three workflow states.
func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Matches reports whether the task's title or description contains the
// query, case-insensitively. An empty query matches everything.
func (t Task) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}
