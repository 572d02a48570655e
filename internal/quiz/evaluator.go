package quiz

import (
	"context"
	"fmt"

	"github.com/abhisek/langquiz/internal/generation"
)

// Evaluator grades answers and asks the model to explain them.
type Evaluator struct {
	client *generation.Client
	policy ReconcilePolicy
	options
}

// NewEvaluator creates an Evaluator. A nil policy means TrustModel.
func NewEvaluator(client *generation.Client, policy ReconcilePolicy, opts ...Option) *Evaluator {
	if policy == nil {
		policy = TrustModel{}
	}
	return &Evaluator{client: client, policy: policy, options: buildOptions(opts)}
}

// Policy returns the reconciliation policy in use.
func (e *Evaluator) Policy() ReconcilePolicy { return e.policy }

// LocalCorrect compares the selection with the answer key.
func LocalCorrect(q *Question, selected int) bool {
	return q != nil && selected == q.CorrectIndex
}

// Evaluate grades selected (1-based) against q. It never fails: model
// problems produce feedback from the answer key with a fixed explanation.
// A selection outside the options is incorrect and no model call is made.
func (e *Evaluator) Evaluate(ctx context.Context, q *Question, selected int) Feedback {
	if q == nil {
		return Feedback{Selected: selected, Explanation: ExplanationNoQuestion, Source: SourceFallback}
	}

	local := LocalCorrect(q, selected)
	fb := Feedback{
		IsCorrect:    local,
		CorrectIndex: q.CorrectIndex,
		Selected:     selected,
		LocalCorrect: local,
		Source:       SourceFallback,
	}

	if !q.ValidSelection(selected) {
		fb.IsCorrect = false
		fb.Source = SourceLocal
		fb.Explanation = fmt.Sprintf(explanationOutOfRangeFmt, selected, len(q.Options), q.CorrectIndex, q.CorrectOption())
		e.metrics.RecordFeedbackFallback(ctx, "out_of_range")
		e.logger.InfoContext(ctx, "selection out of range", "selected", selected, "options", len(q.Options))
		return fb
	}

	call := generation.Call{Purpose: "feedback", Prompt: BuildFeedbackPrompt(q, selected), Preset: generation.FeedbackPreset}
	if e.structured {
		call.Schema = FeedbackSchema
	}
	text, ok := e.client.Do(ctx, call)
	if !ok {
		fb.Explanation = ExplanationUnavailable
		e.metrics.RecordFeedbackFallback(ctx, "generation_failed")
		return fb
	}

	verdict, ok := ParseFeedback(text, q)
	if !ok {
		fb.Explanation = ExplanationUnparseable
		e.metrics.RecordParseFailure(ctx, "feedback")
		e.metrics.RecordFeedbackFallback(ctx, "unparseable")
		e.logger.WarnContext(ctx, "feedback response has no JSON object", "len", len(text))
		return fb
	}

	fb.ModelCorrect = verdict.Correct
	fb.ModelCorrectIndex = verdict.CorrectIndex
	fb.Explanation = verdict.Explanation

	d := e.policy.Reconcile(local, verdict.Correct)
	fb.IsCorrect = d.IsCorrect
	fb.Source = d.Source
	if d.Note != "" {
		fb.Explanation = d.Note + "\n\n" + fb.Explanation
	}

	if fb.Disagrees() {
		e.metrics.RecordDisagreement(ctx, e.policy.Name())
		e.logger.WarnContext(ctx, "model verdict disagrees with answer key",
			"policy", e.policy.Name(),
			"local", local,
			"model", *verdict.Correct,
			"used", fb.IsCorrect,
		)
	}
	return fb
}
