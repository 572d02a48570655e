// Package quiz generates Spanish multiple-choice questions from retrieved
// examples and grades learner answers with model-written feedback.
package quiz

import "errors"

var (
	// ErrGenerationFailed means the model returned nothing usable.
	ErrGenerationFailed = errors.New("question generation failed")

	// ErrMalformedResponse means the model answered but the answer could
	// not be turned into a valid question.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrInvalidTransition is returned when a round is driven out of order.
	ErrInvalidTransition = errors.New("invalid round transition")
)

// Question is a generated multiple-choice question. It is not modified
// after generation.
type Question struct {
	// Text is the question in Spanish.
	Text string

	// Options holds 2 to 4 answer choices in display order.
	Options []string

	// CorrectIndex is the 1-based position of the correct option.
	CorrectIndex int

	// Context is a short scenario introducing the question.
	Context string
}

// CorrectOption returns the text of the correct option.
func (q *Question) CorrectOption() string {
	if q == nil || q.CorrectIndex < 1 || q.CorrectIndex > len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex-1]
}

// ValidSelection reports whether selected names one of the options.
func (q *Question) ValidSelection(selected int) bool {
	return q != nil && selected >= 1 && selected <= len(q.Options)
}

// FeedbackSource records where a feedback verdict came from.
type FeedbackSource string

const (
	// SourceModel: the model's verdict was used.
	SourceModel FeedbackSource = "model"

	// SourceLocal: the answer key decided, with a model explanation.
	SourceLocal FeedbackSource = "local"

	// SourceFallback: the model gave nothing usable; the answer key decided
	// and the explanation is a fixed message.
	SourceFallback FeedbackSource = "fallback"
)

// Fixed explanations used when the model cannot supply one.
const (
	ExplanationUnavailable   = "Unable to generate detailed feedback"
	ExplanationUnparseable   = "Unable to parse feedback"
	ExplanationMissing       = "No explanation provided"
	ExplanationNoQuestion    = "Question not available"
	explanationOutOfRangeFmt = "Option %d is not one of the %d choices, so the answer is incorrect. The correct answer is option %d: %s."
)

// Feedback is the graded result of one answer.
type Feedback struct {
	// IsCorrect is the reconciled verdict shown to the learner.
	IsCorrect bool

	// Explanation is written in English.
	Explanation string

	// CorrectIndex is the question's answer key.
	CorrectIndex int

	// Selected is the learner's 1-based choice.
	Selected int

	// LocalCorrect is Selected == CorrectIndex.
	LocalCorrect bool

	// ModelCorrect is the model's verdict, nil when it gave none.
	ModelCorrect *bool

	// ModelCorrectIndex is the option the model named as correct, or 0
	// when absent or out of range.
	ModelCorrectIndex int

	// Source records which signal decided IsCorrect.
	Source FeedbackSource
}

// Disagrees reports whether the model's verdict contradicts the answer key.
func (f Feedback) Disagrees() bool {
	return f.ModelCorrect != nil && *f.ModelCorrect != f.LocalCorrect
}
