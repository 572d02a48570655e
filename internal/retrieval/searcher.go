package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/abhisek/langquiz/internal/embeddings"
	"github.com/abhisek/langquiz/internal/observe"
)

var _ Retriever = (*Searcher)(nil)

// Searcher embeds a query and looks it up in an Index.
type Searcher struct {
	embedder embeddings.Provider
	index    Index
	metrics  *observe.Metrics
	logger   *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithSearchMetrics records how many examples each search returns.
func WithSearchMetrics(m *observe.Metrics) SearcherOption {
	return func(s *Searcher) { s.metrics = m }
}

// WithSearchLogger overrides the default logger.
func WithSearchLogger(l *slog.Logger) SearcherOption {
	return func(s *Searcher) { s.logger = l }
}

// NewSearcher creates a Searcher.
func NewSearcher(embedder embeddings.Provider, index Index, opts ...SearcherOption) *Searcher {
	s := &Searcher{embedder: embedder, index: index, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search returns up to topK examples ranked by descending similarity.
// Failures are logged and produce an empty result. A nil Searcher
// retrieves nothing.
func (s *Searcher) Search(ctx context.Context, query string, topK int) []Example {
	if s == nil {
		return []Example{}
	}
	out := s.search(ctx, query, topK)
	s.metrics.RecordRetrieval(ctx, len(out))
	return out
}

func (s *Searcher) search(ctx context.Context, query string, topK int) []Example {
	if s.embedder == nil || s.index == nil || topK <= 0 || strings.TrimSpace(query) == "" {
		return []Example{}
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "retrieval embed failed", "model", s.embedder.ModelID(), "err", err)
		return []Example{}
	}

	matches, err := s.index.Query(ctx, vec, topK)
	if err != nil {
		s.logger.WarnContext(ctx, "retrieval query failed", "err", err)
		return []Example{}
	}

	out := make([]Example, 0, len(matches))
	for _, m := range matches {
		out = append(out, exampleFrom(m))
	}
	s.logger.DebugContext(ctx, "retrieval complete", "query", query, "examples", len(out))
	return out
}
