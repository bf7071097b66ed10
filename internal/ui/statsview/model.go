package statsview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
)

// barWidth is the width of the breakdown bars in characters.
const barWidth = 24

// Model renders board statistics: totals, completion rate, and
// per-status and per-priority breakdowns.
type Model struct {
	stats    board.Stats
	archived int
	width    int
	height   int
}

// New creates a stats view model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// SetStats replaces the displayed statistics. archived is the number
// of soft-deleted tasks excluded from the board.
func (m *Model) SetStats(s board.Stats, archived int) {
	m.stats = s
	m.archived = archived
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the statistics panel.
func (m Model) View() string {
	s := m.stats

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Task Statistics")

	lines := []string{
		title,
		fmt.Sprintf("Total tasks       %d", s.Total),
		fmt.Sprintf("Completion rate   %d%%", s.CompletionRate),
		fmt.Sprintf("Archived          %d", m.archived),
		"",
		lipgloss.NewStyle().Bold(true).Render("Status breakdown"),
	}

	for _, status := range model.Statuses {
		count := 0
		switch status {
		case model.StatusTodo:
			count = s.Todo
		case model.StatusInProgress:
			count = s.InProgress
		case model.StatusDone:
			count = s.Done
		}
		lines = append(lines, barLine(status, count, s.Total, theme.StatusStyle(status)))
	}

	lines = append(lines, "", lipgloss.NewStyle().Bold(true).Render("Priority breakdown"))
	for _, p := range model.Priorities {
		lines = append(lines, barLine(p, s.ByPriority[p], s.Total, theme.PriorityStyle(p)))
	}
	if other := otherPriorityCount(s); other > 0 {
		lines = append(lines, barLine("Other", other, s.Total, theme.PriorityStyle("")))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

// barLine renders a labeled proportional bar such as
// "In Progress  ███████          4".
func barLine(label string, count, total int, style lipgloss.Style) string {
	filled := 0
	if total > 0 {
		filled = count * barWidth / total
	}
	if count > 0 && filled == 0 {
		filled = 1
	}

	bar := style.Render(strings.Repeat("█", filled)) +
		theme.HelpStyle.Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf("%-12s %s %d", label, bar, count)
}

// otherPriorityCount sums tasks whose priority is outside the known tiers.
func otherPriorityCount(s board.Stats) int {
	other := 0
	for p, n := range s.ByPriority {
		switch p {
		case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		default:
			other += n
		}
	}
	return other
}
