// Package chat keeps a free-form conversation with a Spanish tutor.
package chat

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/abhisek/langquiz/internal/generation"
	"github.com/abhisek/langquiz/internal/llm"
)

// DefaultMaxTurns is how many exchanges are resent as context.
const DefaultMaxTurns = 10

// System is the tutor's role.
const System = "You are a friendly Spanish tutor. Answer questions about Spanish vocabulary, " +
	"grammar and usage. Give Spanish examples with short English explanations. Keep answers brief."

var (
	// ErrEmptyMessage is returned for a blank message. No model call is made.
	ErrEmptyMessage = errors.New("empty message")

	// ErrNoReply means the model produced nothing; the conversation is unchanged.
	ErrNoReply = errors.New("no reply from the tutor")
)

// Session is one conversation. It is safe for concurrent use, though
// messages are answered one at a time.
type Session struct {
	client   *generation.Client
	maxTurns int

	mu      sync.Mutex
	history []llm.Message
}

// Option configures a Session.
type Option func(*Session)

// WithMaxTurns bounds the resent history. Values below 1 resend none.
func WithMaxTurns(n int) Option {
	return func(s *Session) { s.maxTurns = n }
}

// NewSession creates an empty conversation.
func NewSession(client *generation.Client, opts ...Option) *Session {
	s := &Session{client: client, maxTurns: DefaultMaxTurns}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Send asks the tutor and records the exchange.
func (s *Session) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reply, ok := s.client.Do(ctx, generation.Call{
		Purpose: "chat",
		Prompt:  message,
		System:  System,
		Preset:  generation.ChatPreset,
		History: s.history,
	})
	if !ok {
		return "", ErrNoReply
	}
	reply = strings.TrimSpace(reply)

	s.history = append(s.history,
		llm.Message{Role: llm.RoleUser, Content: message},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	if keep := max(s.maxTurns, 0) * 2; len(s.history) > keep {
		s.history = slices.Clone(s.history[len(s.history)-keep:])
	}
	return reply, nil
}

// Turns reports how many exchanges are kept.
func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history) / 2
}

// Reset forgets the conversation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
