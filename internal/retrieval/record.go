// Package retrieval finds previously seen quiz questions similar to a topic.
//
// Questions are embedded with an [embeddings.Provider] and stored in an
// [Index]. A [Searcher] turns a free-text query into ranked [Example]s and
// never fails: any embedding or index error yields no examples.
package retrieval

import (
	"context"
	"fmt"
)

// Record is one stored question. The JSON form matches the question files
// produced by transcript structuring.
type Record struct {
	ID       string `json:"-"`
	SourceID string `json:"-"`
	Position int    `json:"-"`

	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	Answer        string   `json:"answer,omitempty"`
	CorrectOption string   `json:"correct_option,omitempty"`
	Comment       string   `json:"comment,omitempty"`
}

// RecordID is the stable identifier of the n-th question of a source.
func RecordID(sourceID string, n int) string {
	return fmt.Sprintf("%s_%d", sourceID, n)
}

// Entry is a record with its embedding.
type Entry struct {
	Record    Record
	Embedding []float32
}

// Match is an index hit. Distance is cosine distance: 0 is identical.
type Match struct {
	Record   Record
	Distance float64
}

// Example is a retrieved question used as prompt context.
type Example struct {
	QuestionText  string
	AnswerText    string
	Options       []string
	CorrectOption string
	Similarity    float64
}

// exampleFrom converts a match. Similarity is 1 - distance.
func exampleFrom(m Match) Example {
	return Example{
		QuestionText:  m.Record.Question,
		AnswerText:    m.Record.Answer,
		Options:       m.Record.Options,
		CorrectOption: m.Record.CorrectOption,
		Similarity:    1 - m.Distance,
	}
}

// Index is the storage port for embedded questions.
type Index interface {
	// Upsert inserts entries, replacing any with the same record ID.
	Upsert(ctx context.Context, entries []Entry) error

	// Query returns up to topK records ordered by ascending distance to vec.
	Query(ctx context.Context, vec []float32, topK int) ([]Match, error)

	// Get returns the record with id, or nil when absent.
	Get(ctx context.Context, id string) (*Record, error)

	// Count reports the number of stored records.
	Count(ctx context.Context) (int, error)

	// Reset removes every record.
	Reset(ctx context.Context) error
}

// Retriever is the read side used by question generation.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) []Example
}
