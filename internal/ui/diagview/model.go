package diagview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/store"
	"github.com/nhle/kanban/internal/theme"
)

// RebuildRequestedMsg asks the application to rebuild the data file.
type RebuildRequestedMsg struct{}

// Model renders the read-only diagnostics snapshot of the data file and
// offers the rebuild action.
type Model struct {
	diag    store.Diagnostics
	loadErr error
	width   int
	height  int
}

// New creates a diagnostics view model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// SetDiagnostics replaces the displayed snapshot. err carries a read or
// parse failure; the snapshot is still shown as far as it goes.
func (m *Model) SetDiagnostics(d store.Diagnostics, err error) {
	m.diag = d
	m.loadErr = err
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles the rebuild key.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if keyMsg.String() == "R" {
		return m, func() tea.Msg { return RebuildRequestedMsg{} }
	}
	return m, nil
}

// View renders the diagnostics panel.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Storage Diagnostics")

	lines := []string{
		title,
		fmt.Sprintf("Data file   %s", m.diag.Path),
	}

	if !m.diag.Exists {
		lines = append(lines,
			"Exists      no",
			theme.HelpStyle.Render("The file will be created on the first save."),
		)
	} else {
		lines = append(lines,
			"Exists      yes",
			fmt.Sprintf("Size        %d bytes", m.diag.SizeBytes),
			fmt.Sprintf("Rows        %d", m.diag.Rows),
			fmt.Sprintf("Columns     %d", m.diag.Columns),
		)
	}

	if m.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(theme.ColorRed)
		lines = append(lines, "", errStyle.Render("Error: "+m.loadErr.Error()))
	}

	if len(m.diag.Preview) > 0 {
		lines = append(lines, "", lipgloss.NewStyle().Bold(true).Render("Preview"))
		for _, t := range m.diag.Preview {
			archived := ""
			if t.Archived {
				archived = " [archived]"
			}
			lines = append(lines, fmt.Sprintf("  %-30s %s%s",
				truncate(t.Title, 30), t.Status, archived))
		}
	}

	lines = append(lines, "",
		theme.HelpStyle.Render("R rebuild data file • esc back"))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
