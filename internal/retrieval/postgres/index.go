// Package postgres stores embedded quiz questions in PostgreSQL with a
// pgvector HNSW index for cosine nearest-neighbour search.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/abhisek/langquiz/internal/retrieval"
)

var _ retrieval.Index = (*Index)(nil)

// Index implements [retrieval.Index] on a quiz_questions table.
// Safe for concurrent use.
type Index struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, registers pgvector types on every connection and
// migrates the schema. dims must match the embedding model; changing it
// later requires dropping the table.
func Open(ctx context.Context, dsn string, dims int) (*Index, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("postgres index: dimensions must be positive, got %d", dims)
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres index: parse dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres index: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres index: ping: %w", err)
	}
	if err := Migrate(ctx, pool, dims); err != nil {
		pool.Close()
		return nil, err
	}
	return &Index{pool: pool}, nil
}

// Close releases the pool.
func (x *Index) Close() { x.pool.Close() }

// Migrate creates the extension, table and indexes. Idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, dims int) error {
	ddl := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS quiz_questions (
    id              TEXT         PRIMARY KEY,
    source_id       TEXT         NOT NULL,
    position        INTEGER      NOT NULL DEFAULT 0,
    question        TEXT         NOT NULL,
    options         TEXT[]       NOT NULL DEFAULT '{}',
    answer          TEXT         NOT NULL DEFAULT '',
    correct_option  TEXT         NOT NULL DEFAULT '',
    comment         TEXT         NOT NULL DEFAULT '',
    embedding       vector(%d)   NOT NULL,
    indexed_at      TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_quiz_questions_source
    ON quiz_questions (source_id);

CREATE INDEX IF NOT EXISTS idx_quiz_questions_embedding
    ON quiz_questions USING hnsw (embedding vector_cosine_ops);
`, dims)
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres index: migrate: %w", err)
	}
	return nil
}

const upsertSQL = `
INSERT INTO quiz_questions
    (id, source_id, position, question, options, answer, correct_option, comment, embedding)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    source_id      = EXCLUDED.source_id,
    position       = EXCLUDED.position,
    question       = EXCLUDED.question,
    options        = EXCLUDED.options,
    answer         = EXCLUDED.answer,
    correct_option = EXCLUDED.correct_option,
    comment        = EXCLUDED.comment,
    embedding      = EXCLUDED.embedding,
    indexed_at     = now()`

// Upsert implements [retrieval.Index]. All entries are written in one
// transaction.
func (x *Index) Upsert(ctx context.Context, entries []retrieval.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		if e.Record.ID == "" {
			return fmt.Errorf("postgres index: record without ID")
		}
		opts := e.Record.Options
		if opts == nil {
			opts = []string{}
		}
		batch.Queue(upsertSQL,
			e.Record.ID,
			e.Record.SourceID,
			e.Record.Position,
			e.Record.Question,
			opts,
			e.Record.Answer,
			e.Record.CorrectOption,
			e.Record.Comment,
			pgvector.NewVector(e.Embedding),
		)
	}

	err := pgx.BeginFunc(ctx, x.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("postgres index: upsert: %w", err)
	}
	return nil
}

const selectColumns = `id, source_id, position, question, options, answer, correct_option, comment`

func scanRecord(row pgx.Row, extra ...any) (retrieval.Record, error) {
	var r retrieval.Record
	dest := append([]any{
		&r.ID, &r.SourceID, &r.Position, &r.Question,
		&r.Options, &r.Answer, &r.CorrectOption, &r.Comment,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return retrieval.Record{}, err
	}
	return r, nil
}

// Query implements [retrieval.Index]. Results are ordered by ascending
// cosine distance.
func (x *Index) Query(ctx context.Context, vec []float32, topK int) ([]retrieval.Match, error) {
	if topK <= 0 {
		return []retrieval.Match{}, nil
	}
	q := `SELECT ` + selectColumns + `, embedding <=> $1 AS distance
		FROM   quiz_questions
		ORDER  BY distance
		LIMIT  $2`

	rows, err := x.pool.Query(ctx, q, pgvector.NewVector(vec), topK)
	if err != nil {
		return nil, fmt.Errorf("postgres index: query: %w", err)
	}
	matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (retrieval.Match, error) {
		var m retrieval.Match
		rec, err := scanRecord(row, &m.Distance)
		if err != nil {
			return retrieval.Match{}, err
		}
		m.Record = rec
		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("postgres index: scan rows: %w", err)
	}
	if matches == nil {
		matches = []retrieval.Match{}
	}
	return matches, nil
}

// Get implements [retrieval.Index].
func (x *Index) Get(ctx context.Context, id string) (*retrieval.Record, error) {
	row := x.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM quiz_questions WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres index: get %s: %w", id, err)
	}
	return &rec, nil
}

// Count implements [retrieval.Index].
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := x.pool.QueryRow(ctx, `SELECT count(*) FROM quiz_questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres index: count: %w", err)
	}
	return n, nil
}

// Reset implements [retrieval.Index].
func (x *Index) Reset(ctx context.Context) error {
	if _, err := x.pool.Exec(ctx, `TRUNCATE quiz_questions`); err != nil {
		return fmt.Errorf("postgres index: reset: %w", err)
	}
	return nil
}
