// Package app is the interactive quiz: pick a topic, answer generated
// questions and read the feedback, one round after another.
package app

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/langquiz/internal/quiz"
	"github.com/abhisek/langquiz/internal/topic"
	"github.com/abhisek/langquiz/internal/ui/components"
	"github.com/abhisek/langquiz/internal/ui/layout"
	"github.com/abhisek/langquiz/internal/ui/theme"
)

// Practicer runs quiz rounds. *quiz.Practice satisfies it.
type Practicer interface {
	Start(ctx context.Context, topic string) (*quiz.Round, error)
	Answer(ctx context.Context, r *quiz.Round, selected int) (quiz.Feedback, error)
}

type stage int

const (
	stageTopics stage = iota
	stageCustomTopic
	stageLoading
	stageQuestion
	stageGrading
	stageFeedback
	stageError
)

type (
	topicChosenMsg struct{ topic string }
	customTopicMsg struct{}
	roundReadyMsg  struct {
		round *quiz.Round
		err   error
	}
	gradedMsg struct {
		feedback quiz.Feedback
		err      error
	}
)

const customLabel = "Custom topic…"

// Model is the root Bubble Tea model.
type Model struct {
	ctx      context.Context
	practice Practicer

	stage    stage
	menu     components.Menu
	input    components.TextInput
	choice   components.MultiChoice
	round    *quiz.Round
	feedback quiz.Feedback
	err      error
	failed   stage

	topic    string
	answered int
	correct  int

	width, height int
}

// New creates the model on the topic menu.
func New(ctx context.Context, p Practicer) Model {
	items := make([]components.MenuItem, 0, len(topic.Topics)+1)
	for _, t := range topic.Topics {
		items = append(items, components.MenuItem{Label: t, Action: chooseTopic(t)})
	}
	items = append(items, components.MenuItem{Label: customLabel, Action: func() tea.Cmd {
		return func() tea.Msg { return customTopicMsg{} }
	}})
	return Model{ctx: ctx, practice: p, menu: components.NewMenu("Choose a topic", items)}
}

func chooseTopic(t string) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return topicChosenMsg{topic: t} }
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) start() tea.Cmd {
	ctx, p, t := m.ctx, m.practice, m.topic
	return func() tea.Msg {
		r, err := p.Start(ctx, t)
		return roundReadyMsg{round: r, err: err}
	}
}

func (m Model) grade(selected int) tea.Cmd {
	ctx, p, r := m.ctx, m.practice, m.round
	return func() tea.Msg {
		fb, err := p.Answer(ctx, r, selected)
		return gradedMsg{feedback: fb, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case topicChosenMsg:
		m.topic = msg.topic
		m.stage = stageLoading
		return m, m.start()

	case customTopicMsg:
		m.stage = stageCustomTopic
		m.input = components.NewTextInput("Your topic", "e.g. Música", 60)
		return m, m.input.Init()

	case roundReadyMsg:
		if msg.err != nil {
			m.err = msg.err
			m.failed = stageLoading
			m.stage = stageError
			return m, nil
		}
		m.round = msg.round
		q := msg.round.Question()
		m.choice = components.NewMultiChoice(q.Text, q.Options)
		m.stage = stageQuestion
		return m, nil

	case gradedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.failed = stageGrading
			m.stage = stageError
			return m, nil
		}
		m.feedback = msg.feedback
		m.choice.Reveal(msg.feedback.CorrectIndex)
		m.answered++
		if msg.feedback.IsCorrect {
			m.correct++
		}
		m.stage = stageFeedback
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.stage == stageCustomTopic {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.stage {
	case stageTopics:
		if key == "q" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd

	case stageCustomTopic:
		switch key {
		case "esc":
			m.stage = stageTopics
			return m, nil
		case "enter":
			if t := m.input.Value(); t != "" {
				return m, chooseTopic(t)()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case stageQuestion:
		if key == "esc" {
			m.stage = stageTopics
			return m, nil
		}
		m.choice, _ = m.choice.Update(msg)
		if sel := m.choice.Chosen(); sel != 0 {
			m.stage = stageGrading
			return m, m.grade(sel)
		}
		return m, nil

	case stageFeedback, stageError:
		switch key {
		case "n", "enter", "r":
			m.stage = stageLoading
			m.err = nil
			return m, m.start()
		case "t", "esc":
			m.stage = stageTopics
			return m, nil
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

// content renders the current stage without the frame.
func (m Model) content() string {
	switch m.stage {
	case stageTopics:
		return m.menu.View()
	case stageCustomTopic:
		return m.input.View()
	case stageLoading:
		return theme.Hint.Render(fmt.Sprintf("Generating a question about %s…", m.topic))
	case stageQuestion:
		return m.choice.View()
	case stageGrading:
		return m.choice.View() + "\n" + theme.Hint.Render("Checking your answer…")
	case stageFeedback:
		var b strings.Builder
		b.WriteString(m.choice.View())
		b.WriteString("\n")
		b.WriteString(theme.Verdict(m.feedback.IsCorrect))
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Render(m.feedback.Explanation))
		if m.feedback.Disagrees() {
			b.WriteString("\n\n")
			b.WriteString(theme.Uncertain.Render("The tutor disagreed with the answer key."))
		}
		return b.String()
	case stageError:
		return theme.Incorrect.Render(m.failureTitle()) + "\n\n" + theme.Hint.Render(m.err.Error())
	}
	return ""
}

func (m Model) failureTitle() string {
	if m.failed == stageGrading {
		return "Could not check your answer"
	}
	return "Could not generate a question"
}

func (m Model) hints() []layout.KeyHint {
	switch m.stage {
	case stageTopics:
		return []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "Enter", Description: "Select"}, {Key: "q", Description: "Quit"}}
	case stageCustomTopic:
		return []layout.KeyHint{{Key: "Enter", Description: "Start"}, {Key: "Esc", Description: "Back"}}
	case stageQuestion:
		return []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "1-4", Description: "Answer"}, {Key: "Esc", Description: "Topics"}}
	case stageFeedback:
		return []layout.KeyHint{{Key: "n", Description: "Next"}, {Key: "t", Description: "Topics"}, {Key: "q", Description: "Quit"}}
	case stageError:
		return []layout.KeyHint{{Key: "r", Description: "Retry"}, {Key: "t", Description: "Topics"}, {Key: "q", Description: "Quit"}}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := m.topic
	if m.stage == stageTopics || m.stage == stageCustomTopic {
		title = "Spanish listening practice"
	}
	header := layout.RenderHeader(title, m.correct, m.answered, m.width)
	footer := layout.RenderFooter(m.hints(), m.width)
	content := lipgloss.NewStyle().Width(m.width - 6).Render(m.content())
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the interactive quiz.
func Run(ctx context.Context, p Practicer) error {
	_, err := tea.NewProgram(New(ctx, p)).Run()
	return err
}
