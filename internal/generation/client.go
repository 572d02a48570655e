// Package generation wraps an LLM provider behind a call that never fails
// loudly: every provider error becomes an absent result, logged and counted.
package generation

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/langquiz/internal/llm"
	"github.com/abhisek/langquiz/internal/observe"
)

var errEmpty = errors.New("empty response")

// Client sends prompts to a provider.
type Client struct {
	provider llm.Provider
	metrics  *observe.Metrics
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records call outcomes and latency.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client.
func New(p llm.Provider, opts ...Option) *Client {
	c := &Client{provider: p, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Call is a single generation request.
type Call struct {
	Purpose     string
	Prompt      string
	System      string
	Preset      Preset
	Schema      *llm.Schema
	Attachments []llm.Attachment

	// History holds earlier turns of a conversation, oldest first. Prompt
	// is sent after them as the newest user message.
	History []llm.Message
}

// Generate returns the model's text for prompt. The boolean is false when
// the provider failed or returned only whitespace.
func (c *Client) Generate(ctx context.Context, purpose, prompt string, preset Preset) (string, bool) {
	return c.Do(ctx, Call{Purpose: purpose, Prompt: prompt, Preset: preset})
}

// Do is Generate with full control over the request.
func (c *Client) Do(ctx context.Context, call Call) (string, bool) {
	if c == nil || c.provider == nil {
		return "", false
	}

	ctx = llm.WithPurpose(ctx, call.Purpose)
	req := llm.Request{
		System:      call.System,
		Messages:    append(slices.Clone(call.History), llm.UserText(call.Prompt, call.Attachments...)...),
		Schema:      call.Schema,
		MaxTokens:   call.Preset.MaxOutputTokens,
		Temperature: call.Preset.Temperature,
		TopP:        call.Preset.TopP,
		TopK:        call.Preset.TopK,
	}

	start := time.Now()
	resp, err := c.provider.Generate(ctx, req)
	elapsed := time.Since(start)

	if err == nil && strings.TrimSpace(resp.Text()) == "" {
		err = &llm.ErrInvalidResponse{Err: errEmpty}
	}
	c.metrics.RecordGeneration(ctx, call.Purpose, llm.ErrorKind(err), elapsed)

	if err != nil {
		c.logger.WarnContext(ctx, "generation failed",
			"purpose", call.Purpose,
			"model", c.provider.ModelID(),
			"kind", llm.ErrorKind(err),
			"elapsed", elapsed,
			"err", err,
		)
		return "", false
	}

	c.logger.DebugContext(ctx, "generation complete",
		"purpose", call.Purpose,
		"model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"elapsed", elapsed,
	)
	return resp.Text(), true
}

// ModelID reports the underlying model.
func (c *Client) ModelID() string {
	if c == nil || c.provider == nil {
		return ""
	}
	return c.provider.ModelID()
}
