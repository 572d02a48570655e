// Package handwriting reviews photos of handwritten Spanish translations.
//
// The model answers in five labeled sections. Parsing is tolerant: any
// section may be missing and every field has a fallback.
package handwriting

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"

	"github.com/abhisek/langquiz/internal/extract"
)

// Section markers, in the order the model is asked to write them.
const (
	MarkerText        = "Handwritten Spanish Text:"
	MarkerAssessment  = "Grammatical Correctness and Meaning:"
	MarkerErrors      = "Specific Feedback on Errors:"
	MarkerTranslation = "Correct Translation:"
	MarkerVerdict     = "VERDICT:"
)

// Markers lists the section markers in order.
var Markers = []string{MarkerText, MarkerAssessment, MarkerErrors, MarkerTranslation, MarkerVerdict}

// Fallback values for sections the model left out.
const (
	FallbackText        = "Text not clearly detected"
	FallbackTranslation = "Correct translation could not be determined"
)

// Evaluation is a parsed handwriting review.
type Evaluation struct {
	ExtractedText      string
	Assessment         string
	FeedbackText       string
	CorrectTranslation string

	Verdict       Verdict
	VerdictSource VerdictSource
	Confidence    float64
	IsCorrect     bool

	// Similarity is the Jaro-Winkler similarity between the extracted
	// text and the expected translation, 0 when either is unknown. It is
	// informational and does not affect the verdict.
	Similarity float64

	// Raw is the full model response.
	Raw string

	// Err describes why no review was produced, empty on success.
	Err string
}

// Parse reads a five-section response. A nil policy means
// MarkerThenSentiment.
func Parse(text string, policy VerdictPolicy) Evaluation {
	if policy == nil {
		policy = MarkerThenSentiment{}
	}
	secs := extract.Sections(text, Markers...)

	ev := Evaluation{
		ExtractedText:      orDefault(secs[0], FallbackText),
		Assessment:         orDefault(secs[1], ""),
		FeedbackText:       orDefault(secs[2], text),
		CorrectTranslation: orDefault(secs[3], FallbackTranslation),
		Raw:                text,
	}

	d := policy.Decide(secs[4].Value, secs[4].Found, text)
	ev.Verdict = d.Verdict
	ev.VerdictSource = d.Source
	ev.Confidence = d.Confidence
	ev.IsCorrect = d.Verdict == Correct
	return ev
}

func orDefault(s extract.Section, def string) string {
	if !s.Found || s.Value == "" {
		return def
	}
	return s.Value
}

// TextKnown reports whether the handwriting was read.
func (e Evaluation) TextKnown() bool {
	return e.ExtractedText != "" && e.ExtractedText != FallbackText
}

// Similarity compares two Spanish sentences ignoring case, punctuation and
// spacing.
func Similarity(a, b string) float64 {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	return matchr.JaroWinkler(na, nb, false)
}

func normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
