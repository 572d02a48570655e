package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langquiz/internal/ui/theme"
)

// MenuItem is one menu entry. Action runs on enter.
type MenuItem struct {
	Label  string
	Action func() tea.Cmd
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Title    string
	Items    []MenuItem
	Selected int
}

func NewMenu(title string, items []MenuItem) Menu {
	return Menu{Title: title, Items: items}
}

// Update moves the cursor and runs the selected action on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
	case "down", "j":
		m.Selected = (m.Selected + 1) % len(m.Items)
	case "enter":
		if a := m.Items[m.Selected].Action; a != nil {
			return m, a()
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	if m.Title != "" {
		b.WriteString(theme.Title.Render(m.Title))
		b.WriteString("\n\n")
	}
	for i, item := range m.Items {
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		} else {
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
