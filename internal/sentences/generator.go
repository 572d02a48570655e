// Package sentences supplies English sentences for writing practice,
// each paired with its reference Spanish translation.
package sentences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/langquiz/internal/extract"
	"github.com/abhisek/langquiz/internal/generation"
	"github.com/abhisek/langquiz/internal/llm"
)

// ErrNoGroup is returned when Next is called without a group or topic.
var ErrNoGroup = errors.New("sentences: no group or topic given")

// Source says where a sentence came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceBuiltin  Source = "builtin"
	SourceFallback Source = "fallback"
)

// Sentence is an English sentence and its Spanish translation.
type Sentence struct {
	English string `json:"english" jsonschema:"one simple English sentence"`
	Spanish string `json:"spanish" jsonschema:"its Spanish translation"`
	Source  Source `json:"-"`
}

// Schema is the structured-output schema for a generated sentence.
var Schema = llm.MustSchemaFor[Sentence]("practice_sentence", "An English sentence and its Spanish translation.")

// DefaultAIChance is how often a built-in group asks the model for a fresh
// sentence when AI is enabled.
const DefaultAIChance = 0.7

// Generator picks or generates practice sentences.
type Generator struct {
	client     *generation.Client
	rng        *rand.Rand
	aiChance   float64
	structured bool
	logger     *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source, for reproducible picks.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithAIChance sets the probability of using the model for built-in groups.
func WithAIChance(p float64) Option {
	return func(g *Generator) { g.aiChance = p }
}

// WithStructuredOutput requests schema-constrained JSON from the model.
func WithStructuredOutput(on bool) Option {
	return func(g *Generator) { g.structured = on }
}

// NewGenerator creates a Generator. client may be nil, in which case only
// built-in and fallback sentences are produced.
func NewGenerator(client *generation.Client, opts ...Option) *Generator {
	g := &Generator{
		client:   client,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		aiChance: DefaultAIChance,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Next returns a sentence for group. A built-in group uses the model with
// probability aiChance when useAI is set, otherwise a random built-in
// sentence. Any other name is treated as a custom topic and always goes
// to the model, falling back to a fixed sentence about the topic.
func (g *Generator) Next(ctx context.Context, group string, useAI bool) (Sentence, error) {
	group = strings.TrimSpace(group)
	if group == "" {
		return Sentence{}, ErrNoGroup
	}

	builtin, ok := Groups[group]
	if !ok {
		if s, ok := g.generate(ctx, group); ok {
			return s, nil
		}
		return Sentence{
			English: fmt.Sprintf("I am learning about %s.", group),
			Spanish: fmt.Sprintf("Estoy aprendiendo sobre %s.", group),
			Source:  SourceFallback,
		}, nil
	}

	if useAI && g.rng.Float64() < g.aiChance {
		if s, ok := g.generate(ctx, group); ok {
			return s, nil
		}
	}
	s := builtin[g.rng.IntN(len(builtin))]
	s.Source = SourceBuiltin
	return s, nil
}

func (g *Generator) generate(ctx context.Context, topic string) (Sentence, bool) {
	if g.client == nil {
		return Sentence{}, false
	}
	call := generation.Call{
		Purpose: "sentence",
		Prompt:  BuildPrompt(topic),
		Preset:  generation.CreativePreset,
	}
	if g.structured {
		call.Schema = Schema
	}
	text, ok := g.client.Do(ctx, call)
	if !ok {
		return Sentence{}, false
	}
	s, err := Parse(text)
	if err != nil {
		g.logger.WarnContext(ctx, "unusable sentence from model", "topic", topic, "error", err)
		return Sentence{}, false
	}
	return s, true
}

// BuildPrompt asks for one simple sentence about topic.
func BuildPrompt(topic string) string {
	return fmt.Sprintf(`Generate a single English sentence and its Spanish translation about the topic: "%s".

The sentence must be simple, suitable for practicing basic or intermediate Spanish.
Do not generate lists, dialogues or paragraphs, only ONE simple sentence.

Return ONLY a JSON object with this exact format:
{
  "english": "Sentence in English",
  "spanish": "Translation in Spanish"
}

Do not include any additional text, explanation, introduction or markdown formatting.`, topic)
}

// Parse reads a sentence from model output, tolerating code fences and
// surrounding prose.
func Parse(text string) (Sentence, error) {
	raw, ok := extract.Object(text)
	if !ok {
		return Sentence{}, errors.New("no JSON object in response")
	}
	var s Sentence
	if err := json.Unmarshal(raw, &s); err != nil {
		return Sentence{}, fmt.Errorf("decode sentence: %w", err)
	}
	s.English = strings.TrimSpace(s.English)
	s.Spanish = strings.TrimSpace(s.Spanish)
	if s.English == "" || s.Spanish == "" {
		return Sentence{}, errors.New("sentence is missing english or spanish")
	}
	s.Source = SourceModel
	return s, nil
}
