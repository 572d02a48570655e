package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive either free text or
// structured JSON, depending on whether a Schema was supplied.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its response.
	// The request's Schema field, when set, instructs the provider to return
	// JSON conforming to that schema. The response Content will be the
	// validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. Quiz generation, feedback and
	// handwriting review are all single-turn: one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	// When nil, the response Content is the raw model text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (provider default) when not set.
	Temperature float64

	// TopP is the nucleus sampling threshold. Zero leaves the provider default.
	TopP float64

	// TopK limits sampling to the K most likely tokens. Zero leaves the
	// provider default. Providers without top-k support ignore it.
	TopK int
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string

	// Attachments are binary parts sent alongside Content, e.g. a photo of
	// handwritten text. Only user messages may carry attachments.
	Attachments []Attachment
}

// Attachment is an inline binary part of a message.
type Attachment struct {
	// MIMEType is the media type, e.g. "image/jpeg".
	MIMEType string

	// Data holds the raw bytes.
	Data []byte
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserText builds a single-message request body for the common one-shot case.
func UserText(prompt string, attachments ...Attachment) []Message {
	return []Message{{Role: RoleUser, Content: prompt, Attachments: attachments}}
}

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (used as schema name for OpenAI).
	// Kebab-case, e.g. "quiz-question".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object. Otherwise it is the raw
	// text of the first candidate.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Text returns the response content as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
