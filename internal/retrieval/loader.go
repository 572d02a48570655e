package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abhisek/langquiz/internal/embeddings"
)

// Options configures a Loader.
type Options struct {
	// Recreate empties the index when the Loader is constructed.
	Recreate bool

	// BatchSize bounds how many questions are embedded per provider call.
	// Zero means 32.
	BatchSize int
}

// Loader embeds question files into an Index.
type Loader struct {
	embedder embeddings.Provider
	index    Index
	batch    int
	logger   *slog.Logger
}

// NewLoader creates a Loader, resetting the index first when
// opts.Recreate is set.
func NewLoader(ctx context.Context, embedder embeddings.Provider, index Index, opts Options) (*Loader, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	if opts.Recreate {
		if err := index.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset index: %w", err)
		}
		slog.InfoContext(ctx, "question index reset")
	}
	return &Loader{embedder: embedder, index: index, batch: opts.BatchSize, logger: slog.Default()}, nil
}

// SourceID derives the source identifier from a file name: the base name
// without extension.
func SourceID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseQuestions decodes a JSON array of questions.
func ParseQuestions(data []byte) ([]Record, error) {
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return recs, nil
}

// ParseQuestionsFile reads and decodes a question file.
func ParseQuestionsFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	recs, err := ParseQuestions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// WriteQuestionsFile saves recs as an indented JSON array, creating the
// parent directory if needed.
func WriteQuestionsFile(path string, recs []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// IndexFile indexes every question in path under the file's source ID and
// returns how many were stored.
func (l *Loader) IndexFile(ctx context.Context, path string) (int, error) {
	recs, err := ParseQuestionsFile(path)
	if err != nil {
		return 0, err
	}
	return l.IndexRecords(ctx, SourceID(path), recs)
}

// IndexRecords assigns IDs "<sourceID>_<n>" to recs, embeds their question
// text and upserts them.
func (l *Loader) IndexRecords(ctx context.Context, sourceID string, recs []Record) (int, error) {
	if sourceID == "" {
		return 0, fmt.Errorf("index records: empty source ID")
	}
	if len(recs) == 0 {
		l.logger.InfoContext(ctx, "no questions to index", "source", sourceID)
		return 0, nil
	}

	stored := 0
	for start := 0; start < len(recs); start += l.batch {
		end := min(start+l.batch, len(recs))
		chunk := recs[start:end]

		texts := make([]string, len(chunk))
		for i, r := range chunk {
			texts[i] = r.Question
		}
		vecs, err := l.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return stored, fmt.Errorf("embed %s[%d:%d]: %w", sourceID, start, end, err)
		}

		entries := make([]Entry, len(chunk))
		for i, r := range chunk {
			n := start + i
			r.ID = RecordID(sourceID, n)
			r.SourceID = sourceID
			r.Position = n
			entries[i] = Entry{Record: r, Embedding: vecs[i]}
		}
		if err := l.index.Upsert(ctx, entries); err != nil {
			return stored, fmt.Errorf("upsert %s: %w", sourceID, err)
		}
		stored += len(entries)
	}

	l.logger.InfoContext(ctx, "indexed questions", "source", sourceID, "count", stored, "model", l.embedder.ModelID())
	return stored, nil
}

// IndexDir indexes every .json question file in dir, in name order. A
// missing directory indexes nothing. Files that cannot be read or parsed
// are logged and skipped; embedding or index failures stop the scan.
func (l *Loader) IndexDir(ctx context.Context, dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", dir, err)
	}
	sort.Strings(paths)

	total := 0
	for _, p := range paths {
		recs, err := ParseQuestionsFile(p)
		if err != nil {
			l.logger.WarnContext(ctx, "skipping question file", "path", p, "err", err)
			continue
		}
		n, err := l.IndexRecords(ctx, SourceID(p), recs)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
