package quiz

import (
	"fmt"

	"github.com/abhisek/langquiz/internal/extract"
)

// ParseQuestion extracts a question from model text. Missing fields get
// defaults (CorrectAnswer defaults to 1) and the result must pass the
// validators, or DefaultValidators when none are given. Every failure
// wraps ErrMalformedResponse.
func ParseQuestion(text string, validators ...Validator) (*Question, error) {
	raw, ok := extract.Object(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}

	f := extract.NewFields(raw)
	q := &Question{
		Text:         f.String("", "Question", "question"),
		Options:      f.Strings("Options", "options"),
		CorrectIndex: f.Int(1, "CorrectAnswer", "correct_answer", "correctAnswer"),
		Context:      f.String("", "Context", "context"),
	}

	if len(validators) == 0 {
		validators = DefaultValidators()
	}
	for _, v := range validators {
		if verr := v.Validate(q); verr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, verr)
		}
	}
	return q, nil
}

// ModelVerdict is what the model said about an answer.
type ModelVerdict struct {
	// Correct is nil when the response had no usable "correct" field.
	Correct *bool

	// Explanation falls back to ExplanationMissing.
	Explanation string

	// CorrectIndex is 0 when absent or outside the question's options.
	CorrectIndex int
}

// ParseFeedback reads the model's feedback JSON. It reports false when
// the text holds no JSON object.
func ParseFeedback(text string, q *Question) (ModelVerdict, bool) {
	raw, ok := extract.Object(text)
	if !ok {
		return ModelVerdict{}, false
	}

	f := extract.NewFields(raw)
	v := ModelVerdict{
		Explanation: f.String("", "explanation", "Explanation"),
	}
	if v.Explanation == "" {
		v.Explanation = ExplanationMissing
	}
	if b, ok := f.OptionalBool("correct", "Correct", "is_correct"); ok {
		v.Correct = &b
	}
	if idx := f.Int(0, "correct_answer", "CorrectAnswer"); q.ValidSelection(idx) {
		v.CorrectIndex = idx
	}
	return v, true
}
