package handwriting

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/langquiz/internal/generation"
	"github.com/abhisek/langquiz/internal/llm"
	"github.com/abhisek/langquiz/internal/observe"
	"github.com/abhisek/langquiz/internal/store"
)

// MaxImageBytes is the largest photo sent inline to a model.
const MaxImageBytes = 20 << 20

// DetectMIME returns the media type of image bytes: JPEG and PNG by magic
// number, anything else by content sniffing.
func DetectMIME(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	return http.DetectContentType(b)
}

func supportedMIME(m string) bool {
	switch m {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}

// BuildPrompt asks for the five labeled sections about english.
func BuildPrompt(english string) string {
	return fmt.Sprintf(`Analyze this image containing a handwritten Spanish translation of the following English sentence:

Original English sentence: "%s"

Please respond with the following EXACTLY formatted sections:

1. %s [Extract the text visible in the image]

2. %s [Evaluate if the translation is grammatically correct and conveys the same meaning]

3. %s [Provide specific feedback on any errors, or state "There are no grammatical errors" if correct]

4. %s [Provide the correct Spanish translation of the English sentence]

5. %s [CORRECT or INCORRECT - Use CORRECT only if the translation is fully accurate with no grammatical or meaning errors]

IMPORTANT: Always include all 5 numbered sections and maintain this exact format.
`, english, MarkerText, MarkerAssessment, MarkerErrors, MarkerTranslation, MarkerVerdict)
}

// Evaluator sends handwriting photos to a vision model.
type Evaluator struct {
	client  *generation.Client
	policy  VerdictPolicy
	metrics *observe.Metrics
	logger  *slog.Logger
}

// NewEvaluator creates an Evaluator. A nil policy means MarkerThenSentiment.
func NewEvaluator(client *generation.Client, policy VerdictPolicy, metrics *observe.Metrics) *Evaluator {
	if policy == nil {
		policy = MarkerThenSentiment{}
	}
	return &Evaluator{client: client, policy: policy, metrics: metrics, logger: slog.Default()}
}

// Evaluate reviews a photo of the learner's translation of english.
// expected is the reference Spanish sentence, used only for Similarity;
// when empty the model's correct translation is used instead. Evaluate
// never fails; problems are reported in Evaluation.Err with Verdict Unknown.
func (e *Evaluator) Evaluate(ctx context.Context, image []byte, english, expected string) Evaluation {
	if len(image) == 0 {
		return e.failed(ctx, "empty image")
	}
	if len(image) > MaxImageBytes {
		return e.failed(ctx, fmt.Sprintf("image is %d bytes, limit is %d", len(image), MaxImageBytes))
	}
	mime := DetectMIME(image)
	if !supportedMIME(mime) {
		return e.failed(ctx, fmt.Sprintf("unsupported image type %s (need image/jpeg|png|webp|gif)", mime))
	}

	text, ok := e.client.Do(ctx, generation.Call{
		Purpose:     "handwriting",
		Prompt:      BuildPrompt(english),
		Preset:      generation.ReviewPreset,
		Attachments: []llm.Attachment{{MIMEType: mime, Data: image}},
	})
	if !ok {
		return e.failed(ctx, "the model returned no review")
	}

	ev := Parse(text, e.policy)
	ref := strings.TrimSpace(expected)
	if ref == "" && ev.CorrectTranslation != FallbackTranslation {
		ref = ev.CorrectTranslation
	}
	if ev.TextKnown() && ref != "" {
		ev.Similarity = Similarity(ev.ExtractedText, ref)
	}

	e.metrics.RecordHandwriting(ctx, string(ev.Verdict), string(ev.VerdictSource))
	e.logger.DebugContext(ctx, "handwriting reviewed",
		"verdict", ev.Verdict,
		"source", ev.VerdictSource,
		"similarity", ev.Similarity,
	)
	return ev
}

func (e *Evaluator) failed(ctx context.Context, reason string) Evaluation {
	e.metrics.RecordHandwriting(ctx, string(Unknown), string(SourceNone))
	e.logger.WarnContext(ctx, "handwriting review failed", "reason", reason)
	return Evaluation{
		ExtractedText:      FallbackText,
		FeedbackText:       "Error analyzing the image: " + reason,
		CorrectTranslation: FallbackTranslation,
		Verdict:            Unknown,
		VerdictSource:      SourceNone,
		Err:                reason,
	}
}

// Event converts a review into a practice-round event.
func (e Evaluation) Event(topic, english string) store.RoundEventData {
	answer := ""
	if e.TextKnown() {
		answer = e.ExtractedText
	}
	return store.RoundEventData{
		RoundID:       uuid.NewString(),
		Kind:          store.RoundHandwriting,
		Topic:         topic,
		Prompt:        english,
		Answer:        answer,
		IsCorrect:     e.IsCorrect,
		LocalCorrect:  e.IsCorrect,
		VerdictSource: string(e.VerdictSource),
		Explanation:   e.FeedbackText,
	}
}
