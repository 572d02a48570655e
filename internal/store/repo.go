package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // LLM events only; empty matches all
	Kind    RoundKind // practice rounds only; empty matches all
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage over a group of LLM events.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// RoundKind distinguishes the practice modes.
type RoundKind string

const (
	RoundQuiz        RoundKind = "quiz"
	RoundHandwriting RoundKind = "handwriting"
)

// RoundEventData captures one finished practice round.
type RoundEventData struct {
	RoundID       string
	Kind          RoundKind
	Topic         string
	Prompt        string // question text or English sentence
	Answer        string // selected option or extracted handwriting
	IsCorrect     bool
	LocalCorrect  bool
	VerdictSource string
	Explanation   string
}

// RoundEvent is a stored practice round.
type RoundEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RoundEventData
}

// RoundStats summarizes practice results for one round kind.
type RoundStats struct {
	Kind    RoundKind
	Rounds  int
	Correct int
}

// Accuracy returns the share of correct rounds, or 0 with no rounds.
func (s RoundStats) Accuracy() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Rounds)
}

// LLMEventRecorder is the write side used by the LLM logging middleware.
type LLMEventRecorder interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// RoundRecorder is the write side used after each answered round.
type RoundRecorder interface {
	// AppendRound records a finished practice round.
	AppendRound(ctx context.Context, data RoundEventData) error
}

// EventRepo provides append and query access to stored events.
type EventRepo interface {
	LLMEventRecorder
	RoundRecorder

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event by ID, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// QueryRounds returns practice rounds, newest first.
	QueryRounds(ctx context.Context, opts QueryOpts) ([]RoundEvent, error)

	// RoundStatsByKind summarizes practice results per kind.
	RoundStatsByKind(ctx context.Context) ([]RoundStats, error)
}
