package boardview

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
)

// descriptionLimit is how many characters of the description a card shows.
const descriptionLimit = 50

// renderCard draws a single task card at the given inner width.
func renderCard(t model.Task, selected bool, width int, now time.Time) string {
	style := theme.CardStyle
	if selected {
		style = theme.SelectedCardStyle
	}
	style = style.Width(width).BorderForeground(theme.PriorityColor(t.Priority))
	if selected {
		style = style.BorderForeground(theme.ColorBlue)
	}

	title := t.Title
	if title == "" {
		title = "(untitled)"
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render(truncate(title, width))}

	if t.Description != "" {
		desc := truncate(t.Description, descriptionLimit)
		lines = append(lines, theme.HelpStyle.Render(truncate(desc, width)))
	}

	meta := renderDue(t, now)
	badge := theme.PriorityStyle(t.Priority).Render(t.Priority)
	gap := width - lipgloss.Width(meta) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, meta+strings.Repeat(" ", gap)+badge)

	if t.Assignee != "" {
		lines = append(lines, theme.HelpStyle.Render(truncate(t.Assignee, width)))
	}

	return style.Render(strings.Join(lines, "\n"))
}

// renderDue renders the due date colored by its classification.
func renderDue(t model.Task, now time.Time) string {
	due := t.DueDate
	if due == "" {
		due = "N/A"
	}
	return theme.DueStyle(t.DueStatusOn(now)).Render("Due: " + due)
}

// truncate shortens s to at most n characters, appending an ellipsis.
func truncate(s string, n int) string {
	if n < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
