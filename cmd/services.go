package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/langquiz/internal/embeddings"
	"github.com/abhisek/langquiz/internal/generation"
	"github.com/abhisek/langquiz/internal/llm"
	"github.com/abhisek/langquiz/internal/observe"
	"github.com/abhisek/langquiz/internal/retrieval"
	"github.com/abhisek/langquiz/internal/retrieval/postgres"
	"github.com/abhisek/langquiz/internal/store"
	"github.com/abhisek/langquiz/internal/topic"
	"github.com/abhisek/langquiz/internal/ui/theme"
)

// services holds what the practice commands share.
type services struct {
	store   *store.Store
	metrics *observe.Metrics
	meters  *observe.InProcess
	client  *generation.Client
	closers []func()
	summary bool
}

// newServices opens the event store, metrics and the model client.
func newServices(ctx context.Context, cmd *cobra.Command) (*services, error) {
	a := &services{meters: observe.NewInProcess()}
	a.summary, _ = cmd.Flags().GetBool("metrics")

	m, err := observe.NewMetrics(a.meters.Provider)
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}
	a.metrics = m

	s, err := openStore()
	if err != nil {
		return nil, err
	}
	a.store = s
	a.closers = append(a.closers, func() { s.Close() })

	p, err := buildProvider(ctx, s.EventRepo())
	if err != nil {
		a.Close(ctx, cmd.OutOrStdout())
		return nil, err
	}
	a.client = generation.New(p, generation.WithMetrics(m))
	return a, nil
}

// buildProvider uses the configured LLM provider, falling back to the
// first well-known API key variable when its key is missing.
func buildProvider(ctx context.Context, recorder store.LLMEventRecorder) (llm.Provider, error) {
	lc := cfg.LLM
	if err := lc.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, err
		}
		discovered.Retry = lc.Retry
		discovered.Timeout = lc.Timeout
		lc = discovered
		slog.InfoContext(ctx, "using discovered LLM provider", "provider", lc.Provider)
	}
	return llm.NewProvider(ctx, lc, recorder)
}

// Close releases resources in reverse order and prints the metrics
// summary when requested.
func (a *services) Close(ctx context.Context, w io.Writer) {
	if a.summary {
		printMetrics(ctx, w, a.meters)
	}
	_ = a.meters.Shutdown(ctx)
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// openIndex returns the pgvector index when a DSN is configured, or an
// empty in-memory index. The boolean reports whether it is persistent.
func openIndex(ctx context.Context, dims int) (retrieval.Index, func(), bool, error) {
	if dsn := cfg.Retrieval.PostgresDSN; dsn != "" {
		idx, err := postgres.Open(ctx, dsn, dims)
		if err != nil {
			return nil, nil, false, err
		}
		return idx, idx.Close, true, nil
	}
	return retrieval.NewMemoryIndex(), func() {}, false, nil
}

// retriever builds the question searcher. Without a usable embeddings
// provider or index it returns nil and questions get no examples.
func (a *services) retriever(ctx context.Context) retrieval.Retriever {
	emb, err := embeddings.New(ctx, cfg.Embeddings)
	if err != nil {
		slog.WarnContext(ctx, "question retrieval disabled", "error", err)
		return nil
	}
	idx, closeIdx, persistent, err := openIndex(ctx, emb.Dimensions())
	if err != nil {
		slog.WarnContext(ctx, "question retrieval disabled", "error", err)
		return nil
	}
	a.closers = append(a.closers, closeIdx)

	if !persistent {
		loader, err := retrieval.NewLoader(ctx, emb, idx, retrieval.Options{})
		if err == nil {
			var n int
			n, err = loader.IndexDir(ctx, cfg.Retrieval.QuestionsDir)
			slog.DebugContext(ctx, "loaded question bank", "dir", cfg.Retrieval.QuestionsDir, "count", n)
		}
		if err != nil {
			slog.WarnContext(ctx, "loading question bank failed", "error", err)
		}
	}
	return retrieval.NewSearcher(emb, idx, retrieval.WithSearchMetrics(a.metrics))
}

// translator builds the topic translator over Redis when configured,
// otherwise over an in-memory cache.
func (a *services) translator(ctx context.Context) *topic.Translator {
	var cache topic.Cache = topic.NewMemoryCache()
	if url := cfg.Topics.RedisURL; url != "" {
		rdb, err := topic.OpenRedis(ctx, url)
		if err != nil {
			slog.WarnContext(ctx, "redis unavailable, caching topics in memory", "error", err)
		} else {
			a.closers = append(a.closers, func() { rdb.Close() })
			cache = topic.NewRedisCache(rdb, cfg.Topics.CacheTTL)
		}
	}
	return topic.NewTranslator(a.client, cache)
}

func printMetrics(ctx context.Context, w io.Writer, p *observe.InProcess) {
	lines, err := p.Summary(ctx)
	if err != nil {
		fmt.Fprintln(w, "metrics unavailable:", err)
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Title.Render("Metrics"))
	fmt.Fprintln(w, theme.Separator(72))
	for _, l := range lines {
		fmt.Fprintf(w, "%-36s %-24s %s\n", l.Metric, l.Labels, l.Value)
	}
}
