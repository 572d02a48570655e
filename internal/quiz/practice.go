package quiz

import (
	"context"
	"log/slog"

	"github.com/abhisek/langquiz/internal/store"
)

// Practice drives rounds through generation and grading and records
// finished rounds.
type Practice struct {
	gen      *Generator
	eval     *Evaluator
	recorder store.RoundRecorder
	logger   *slog.Logger
}

// NewPractice creates a Practice. recorder may be nil.
func NewPractice(gen *Generator, eval *Evaluator, recorder store.RoundRecorder) *Practice {
	return &Practice{gen: gen, eval: eval, recorder: recorder, logger: slog.Default()}
}

// Start generates a question for a new round.
func (p *Practice) Start(ctx context.Context, topic string) (*Round, error) {
	q, err := p.gen.Generate(ctx, topic)
	if err != nil {
		return nil, err
	}
	r := NewRound(topic)
	if err := r.SetQuestion(q); err != nil {
		return nil, err
	}
	return r, nil
}

// Answer submits selected, grades it and records the round. A recording
// failure is logged and does not affect the feedback.
func (p *Practice) Answer(ctx context.Context, r *Round, selected int) (Feedback, error) {
	if err := r.Submit(selected); err != nil {
		return Feedback{}, err
	}
	fb := p.eval.Evaluate(ctx, r.Question(), selected)
	if err := r.Complete(fb); err != nil {
		return Feedback{}, err
	}

	if p.recorder != nil {
		ev, err := r.Event()
		if err == nil {
			err = p.recorder.AppendRound(ctx, ev)
		}
		if err != nil {
			p.logger.WarnContext(ctx, "record round failed", "round", r.ID(), "err", err)
		}
	}
	return fb, nil
}
