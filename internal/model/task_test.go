package model

import (
	"testing"
	"time"
)

func TestDueStatusOn(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dueDate string
		want    DueStatus
	}{
		{"overdue", "2026-08-30", DueOverdue},
		{"due today", "2026-08-31", DueSoon},
		{"due at window edge", "2026-09-02", DueSoon},
		{"due after window", "2026-09-03", DueNormal},
		{"far future", "2027-01-01", DueNormal},
		{"empty", "", DueNormal},
		{"malformed", "next tuesday", DueNormal},
		{"wrong format", "31/08/2026", DueNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{DueDate: tt.dueDate}
			if got := task.DueStatusOn(now); got != tt.want {
				t.Errorf("DueStatusOn(%q): got %v, want %v", tt.dueDate, got, tt.want)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range Statuses {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	if ValidStatus("Blocked") {
		t.Errorf("ValidStatus should reject unknown states")
	}
	if ValidStatus("") {
		t.Errorf("ValidStatus should reject the empty string")
	}
}

func TestMatches(t *testing.T) {
	task := Task{Title: "Fix Login Bug", Description: "OAuth redirect loop"}

	if !task.Matches("login") {
		t.Errorf("title match should be case-insensitive")
	}
	if !task.Matches("redirect") {
		t.Errorf("description should be searched")
	}
	if !task.Matches("") {
		t.Errorf("empty query matches everything")
	}
	if task.Matches("billing") {
		t.Errorf("unrelated query should not match")
	}
}
