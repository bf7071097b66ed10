package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ColumnStyle wraps a single board column.
var ColumnStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ColumnTitleStyle renders a board column header with its task count.
var ColumnTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// CardStyle is the base style for a task card.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorSubtle)

// SelectedCardStyle highlights the focused task card.
var SelectedCardStyle = CardStyle.
	Bold(true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// StatusStyle returns a color-coded style for a workflow state.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.StatusTodo:
		return base.Foreground(ColorBlue)
	case model.StatusInProgress:
		return base.Foreground(ColorYellow)
	case model.StatusDone:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityColor returns the badge color for a priority tier. Unknown
// tiers get the neutral default.
func PriorityColor(priority string) lipgloss.AdaptiveColor {
	switch priority {
	case model.PriorityHigh:
		return ColorRed
	case model.PriorityMedium:
		return ColorOrange
	case model.PriorityLow:
		return ColorGreen
	default:
		return ColorBlue
	}
}

// PriorityStyle returns a color-coded badge style for a priority tier.
func PriorityStyle(priority string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(PriorityColor(priority))
}

// DueStyle returns the style for a due date given its classification.
func DueStyle(ds model.DueStatus) lipgloss.Style {
	base := lipgloss.NewStyle()

	switch ds {
	case model.DueOverdue:
		return base.Foreground(ColorRed)
	case model.DueSoon:
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorGray)
	}
}
