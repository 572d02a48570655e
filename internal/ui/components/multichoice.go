package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/langquiz/internal/ui/theme"
)

// MultiChoice selects one answer option. Positions are 1-based to match
// quiz questions; 0 means none.
type MultiChoice struct {
	Question string
	Options  []string

	cursor  int
	chosen  int
	correct int
}

// NewMultiChoice creates a selector with the cursor on the first option.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{Question: question, Options: options, cursor: 1}
}

// Update moves the cursor with arrows or j/k and chooses with enter or a
// digit key. Input is ignored once an option is chosen.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.chosen != 0 {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.cursor > 1 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.Options) {
			m.cursor++
		}
	case "enter":
		m.chosen = m.cursor
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.cursor = n
			m.chosen = n
		}
	}
	return m, nil
}

// Chosen returns the chosen option, or 0.
func (m MultiChoice) Chosen() int { return m.chosen }

// Reveal marks the correct option for display.
func (m *MultiChoice) Reveal(correct int) { m.correct = correct }

// View renders the question and options. After Reveal the correct option
// is green and a wrong choice red.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		n := i + 1
		prefix := "  "
		if n == m.cursor && m.chosen == 0 {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, n, opt)

		switch {
		case m.correct != 0 && n == m.correct:
			line = theme.Correct.Render(line + "  ✓")
		case m.correct != 0 && n == m.chosen:
			line = theme.Incorrect.Render(line)
		case m.correct != 0:
			line = theme.Hint.Render(line)
		case n == m.chosen || (m.chosen == 0 && n == m.cursor):
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
