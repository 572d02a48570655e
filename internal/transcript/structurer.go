// Package transcript turns listening-comprehension transcripts into
// question records ready for indexing.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/langquiz/internal/extract"
	"github.com/abhisek/langquiz/internal/generation"
	"github.com/abhisek/langquiz/internal/retrieval"
)

var (
	ErrEmptyTranscript = errors.New("transcript: empty transcript")
	ErrNoResponse      = errors.New("transcript: model returned no response")
	ErrMalformed       = errors.New("transcript: malformed response")
)

const instructions = `Extract all the questions and answers in Spanish from the following transcript and return them in a structured JSON format as follows:

[
    {
        "question": "[The question in Spanish, including all answer choices]",
        "options": ["[Option 1]", "[Option 2]", "[Option 3]"],
        "answer": "[The correct answer]",
        "comment": "[Additional comment after the answer]"
    }
]

Expected output example:
[
    {
        "question": "¿Cuál es la posición de la Tierra con respecto al Sol? ¿La primera, La segunda o La tercera?",
        "options": ["La primera", "La segunda", "La tercera"],
        "answer": "La tercera",
        "comment": "¡Es el tercer planeta después de Mercurio y Venus!"
    }
]`

// BuildPrompt wraps transcript in the extraction instructions.
func BuildPrompt(transcript string) string {
	return instructions + "\n\nHere's the transcript:\n" + transcript
}

// Structurer extracts questions from transcripts with a model.
type Structurer struct {
	client *generation.Client
	logger *slog.Logger
}

func NewStructurer(client *generation.Client) *Structurer {
	return &Structurer{client: client, logger: slog.Default()}
}

// Structure returns the questions found in transcript. An empty list is
// valid: the transcript may contain no questions.
func (s *Structurer) Structure(ctx context.Context, transcript string) ([]retrieval.Record, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, ErrEmptyTranscript
	}

	text, ok := s.client.Do(ctx, generation.Call{
		Purpose: "transcript",
		Prompt:  BuildPrompt(transcript),
		Preset:  generation.ExtractionPreset,
	})
	if !ok {
		return nil, ErrNoResponse
	}

	recs, err := Parse(text)
	if err != nil {
		s.logger.WarnContext(ctx, "transcript structuring failed", "error", err, "response_len", len(text))
		return nil, err
	}
	s.logger.InfoContext(ctx, "transcript structured", "questions", len(recs), "transcript_len", len(transcript))
	return recs, nil
}

// Parse decodes a JSON array of questions from model output. Entries
// without question text are dropped. When the answer names one of the
// options, that option is recorded as the correct one.
func Parse(text string) ([]retrieval.Record, error) {
	raw, ok := extract.Array(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON array", ErrMalformed)
	}
	var in []retrieval.Record
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	out := make([]retrieval.Record, 0, len(in))
	for _, r := range in {
		r.Question = strings.TrimSpace(r.Question)
		if r.Question == "" {
			continue
		}
		r.Answer = strings.TrimSpace(r.Answer)
		r.Comment = strings.TrimSpace(r.Comment)
		if r.CorrectOption == "" {
			r.CorrectOption = matchOption(r.Options, r.Answer)
		}
		out = append(out, r)
	}
	return out, nil
}

func matchOption(options []string, answer string) string {
	if answer == "" {
		return ""
	}
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), answer) {
			return o
		}
	}
	return ""
}
