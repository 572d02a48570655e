package quiz

import (
	"fmt"
	"strings"
)

// Validator checks a parsed question before it is shown.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural".
	Name() string

	// Validate returns nil if q passes.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators is the chain applied when none is configured.
func DefaultValidators() []Validator {
	return []Validator{&StructuralValidator{}, &DistinctOptionsValidator{}}
}

// Option count limits for a generated question.
const (
	MinOptions = 2
	MaxOptions = 4
)

// StructuralValidator checks the text, the option count and the answer key.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}
	if strings.TrimSpace(q.Text) == "" {
		return fail("question text is empty")
	}
	if n := len(q.Options); n < MinOptions || n > MaxOptions {
		return fail("expected %d to %d options, got %d", MinOptions, MaxOptions, n)
	}
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return fail("option %d is empty", i+1)
		}
	}
	if q.CorrectIndex < 1 || q.CorrectIndex > len(q.Options) {
		return fail("correct answer %d is outside 1..%d", q.CorrectIndex, len(q.Options))
	}
	return nil
}

// DistinctOptionsValidator rejects questions that repeat an option, which
// would make more than one choice correct.
type DistinctOptionsValidator struct{}

func (v *DistinctOptionsValidator) Name() string { return "distinct-options" }

func (v *DistinctOptionsValidator) Validate(q *Question) *ValidationError {
	seen := make(map[string]int, len(q.Options))
	for i, o := range q.Options {
		key := strings.ToLower(strings.Join(strings.Fields(o), " "))
		if j, ok := seen[key]; ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("options %d and %d are the same", j+1, i+1),
			}
		}
		seen[key] = i
	}
	return nil
}
