package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/langquiz/internal/generation"
	"github.com/abhisek/langquiz/internal/retrieval"
)

// DefaultTopK is how many similar questions are used as examples.
const DefaultTopK = 3

// Translator maps a topic into the language of the question bank.
type Translator interface {
	Translate(ctx context.Context, topic string) string
}

// Config controls question generation.
type Config struct {
	// TopK is the number of retrieved examples. Zero means DefaultTopK.
	TopK int

	// StructuredOutput sends QuestionSchema to providers that support
	// native JSON output.
	StructuredOutput bool

	// Validators run in order on every parsed question. Empty means
	// DefaultValidators.
	Validators []Validator
}

// Generator produces questions: translate, retrieve, prompt, generate, parse.
type Generator struct {
	client     *generation.Client
	retriever  retrieval.Retriever
	translator Translator
	cfg        Config
	options
}

// NewGenerator creates a Generator. retriever and translator may be nil,
// meaning no examples and no translation.
func NewGenerator(client *generation.Client, retriever retrieval.Retriever, translator Translator, cfg Config, opts ...Option) *Generator {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if len(cfg.Validators) == 0 {
		cfg.Validators = DefaultValidators()
	}
	return &Generator{
		client:     client,
		retriever:  retriever,
		translator: translator,
		cfg:        cfg,
		options:    buildOptions(opts),
	}
}

// Generate creates one question about topic. An empty retrieval result is
// not an error. Failures wrap ErrGenerationFailed or ErrMalformedResponse.
func (g *Generator) Generate(ctx context.Context, topic string) (*Question, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("generate question: empty topic")
	}

	query := topic
	if g.translator != nil {
		query = g.translator.Translate(ctx, topic)
	}

	var examples []retrieval.Example
	if g.retriever != nil {
		examples = g.retriever.Search(ctx, query, g.cfg.TopK)
	}
	g.logger.DebugContext(ctx, "building question prompt", "topic", topic, "query", query, "examples", len(examples))

	prompt, err := BuildGenerationPrompt(query, examples)
	if err != nil {
		return nil, err
	}

	call := generation.Call{Purpose: "question", Prompt: prompt, Preset: generation.QuestionPreset}
	if g.cfg.StructuredOutput || g.structured {
		call.Schema = QuestionSchema
	}
	text, ok := g.client.Do(ctx, call)
	if !ok {
		return nil, fmt.Errorf("%w: topic %q", ErrGenerationFailed, topic)
	}

	q, err := ParseQuestion(text, g.cfg.Validators...)
	if err != nil {
		g.metrics.RecordParseFailure(ctx, "question")
		g.logger.WarnContext(ctx, "question response rejected", "topic", topic, "err", err)
		return nil, err
	}
	g.metrics.RecordQuestion(ctx)
	return q, nil
}
