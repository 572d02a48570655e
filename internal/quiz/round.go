package quiz

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/langquiz/internal/store"
)

// State is the phase of a practice round.
type State int

const (
	NoQuestion State = iota
	QuestionGenerated
	AnswerSubmitted
	FeedbackReady
)

func (s State) String() string {
	switch s {
	case NoQuestion:
		return "no-question"
	case QuestionGenerated:
		return "question-generated"
	case AnswerSubmitted:
		return "answer-submitted"
	case FeedbackReady:
		return "feedback-ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Round tracks one question from generation to feedback.
// It is not safe for concurrent use.
type Round struct {
	id       string
	topic    string
	state    State
	question *Question
	selected int
	feedback *Feedback
}

// NewRound starts an empty round about topic.
func NewRound(topic string) *Round {
	return &Round{id: uuid.NewString(), topic: topic}
}

func (r *Round) ID() string          { return r.id }
func (r *Round) Topic() string       { return r.topic }
func (r *Round) State() State        { return r.state }
func (r *Round) Question() *Question { return r.question }
func (r *Round) Selected() int       { return r.selected }
func (r *Round) Feedback() *Feedback { return r.feedback }

func (r *Round) transition(from, to State) error {
	if r.state != from {
		return fmt.Errorf("%w: %s -> %s from %s", ErrInvalidTransition, from, to, r.state)
	}
	r.state = to
	return nil
}

// SetQuestion moves NoQuestion -> QuestionGenerated.
func (r *Round) SetQuestion(q *Question) error {
	if q == nil {
		return fmt.Errorf("%w: nil question", ErrInvalidTransition)
	}
	if err := r.transition(NoQuestion, QuestionGenerated); err != nil {
		return err
	}
	r.question = q
	return nil
}

// Submit moves QuestionGenerated -> AnswerSubmitted.
func (r *Round) Submit(selected int) error {
	if err := r.transition(QuestionGenerated, AnswerSubmitted); err != nil {
		return err
	}
	r.selected = selected
	return nil
}

// Complete moves AnswerSubmitted -> FeedbackReady.
func (r *Round) Complete(fb Feedback) error {
	if err := r.transition(AnswerSubmitted, FeedbackReady); err != nil {
		return err
	}
	r.feedback = &fb
	return nil
}

// Reset starts a new round on the same topic from any state.
func (r *Round) Reset() {
	*r = Round{id: uuid.NewString(), topic: r.topic}
}

// Event converts a finished round into a store event.
func (r *Round) Event() (store.RoundEventData, error) {
	if r.state != FeedbackReady {
		return store.RoundEventData{}, fmt.Errorf("%w: round %s is %s", ErrInvalidTransition, r.id, r.state)
	}
	answer := ""
	if r.question.ValidSelection(r.selected) {
		answer = r.question.Options[r.selected-1]
	}
	return store.RoundEventData{
		RoundID:       r.id,
		Kind:          store.RoundQuiz,
		Topic:         r.topic,
		Prompt:        r.question.Text,
		Answer:        answer,
		IsCorrect:     r.feedback.IsCorrect,
		LocalCorrect:  r.feedback.LocalCorrect,
		VerdictSource: string(r.feedback.Source),
		Explanation:   r.feedback.Explanation,
	}, nil
}
