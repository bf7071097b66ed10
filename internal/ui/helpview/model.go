package helpview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/theme"
)

// Model renders the full keybinding reference.
type Model struct {
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a help view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the keybinding reference.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Keyboard Shortcuts")

	sections := []struct {
		name     string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{
			m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right,
		}},
		{"Tasks", []key.Binding{
			m.keys.New, m.keys.Edit, m.keys.MoveLeft, m.keys.MoveRight,
			m.keys.Archive,
		}},
		{"Board", []key.Binding{
			m.keys.ArchiveDone, m.keys.RestoreAll, m.keys.Refresh,
			m.keys.Search,
		}},
		{"Views", []key.Binding{
			m.keys.Stats, m.keys.Diagnostics, m.keys.Help,
			m.keys.Back, m.keys.Quit,
		}},
	}

	lines := []string{title}
	for _, sec := range sections {
		lines = append(lines, "", lipgloss.NewStyle().Bold(true).Render(sec.name))
		for _, b := range sec.bindings {
			h := b.Help()
			lines = append(lines, "  "+padRight(h.Key, 10)+theme.HelpStyle.Render(h.Desc))
		}
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func padRight(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-w)
}
