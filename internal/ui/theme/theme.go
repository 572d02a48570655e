// Package theme holds the terminal styles for langquiz output.
package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette, warm and readable on dark terminals.
var (
	Primary   = lipgloss.Color("#F59E0B") // Amber
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#E11D48") // Crimson
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Warning   = lipgloss.Color("#EAB308") // Yellow
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Rule = lipgloss.NewStyle().
		Foreground(Border)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Uncertain = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)
)

// Verdict renders a correct or incorrect badge.
func Verdict(ok bool) string {
	if ok {
		return Correct.Render("✓ Correct")
	}
	return Incorrect.Render("✗ Incorrect")
}

// Option renders a numbered answer option. n is 1-based. The chosen option
// is highlighted; once the key is revealed, the correct one is marked.
func Option(n int, text string, chosen, correct bool) string {
	line := fmt.Sprintf("%d. %s", n, text)
	switch {
	case correct:
		return Correct.Render(line + "  ✓")
	case chosen:
		return Selected.Render(line)
	default:
		return Unselected.Render(line)
	}
}

// Separator is a horizontal rule of width cells.
func Separator(width int) string {
	return Rule.Render(strings.Repeat("─", width))
}

// Field renders a "Label: value" line.
func Field(label, value string) string {
	return Label.Render(label+":") + " " + Body.Render(value)
}
