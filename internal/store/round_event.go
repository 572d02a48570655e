package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var roundColumns = []string{
	"id", "sequence", "timestamp", "round_id", "kind", "topic", "prompt",
	"answer", "is_correct", "local_correct", "verdict_source", "explanation",
}

func (r *eventRepo) AppendRound(ctx context.Context, data RoundEventData) error {
	if data.RoundID == "" || data.Kind == "" {
		return fmt.Errorf("round event requires round ID and kind")
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableRounds).
		Columns(roundColumns[1:]...).
		Values(
			seqNum,
			time.Now().UnixMilli(),
			data.RoundID,
			string(data.Kind),
			data.Topic,
			data.Prompt,
			data.Answer,
			data.IsCorrect,
			data.LocalCorrect,
			data.VerdictSource,
			data.Explanation,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save practice round: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRounds(ctx context.Context, opts QueryOpts) ([]RoundEvent, error) {
	sel := builder().Select(roundColumns...).
		From(entsql.Table(tableRounds)).
		OrderBy(entsql.Desc("sequence"))
	preds := rangePredicates(opts)
	if opts.Kind != "" {
		preds = append(preds, entsql.EQ("kind", string(opts.Kind)))
	}
	applyOpts(sel, preds, opts.Limit)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query practice rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundEvent
	for rows.Next() {
		var (
			e    RoundEvent
			ts   int64
			kind string
		)
		if err := rows.Scan(
			&e.ID, &e.Sequence, &ts, &e.RoundID, &kind, &e.Topic, &e.Prompt,
			&e.Answer, &e.IsCorrect, &e.LocalCorrect, &e.VerdictSource, &e.Explanation,
		); err != nil {
			return nil, fmt.Errorf("scan practice round: %w", err)
		}
		e.Kind = RoundKind(kind)
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) RoundStatsByKind(ctx context.Context) ([]RoundStats, error) {
	query, args := builder().Select(
		"kind",
		entsql.As(entsql.Count("*"), "rounds"),
		entsql.As(entsql.Sum("is_correct"), "correct"),
	).
		From(entsql.Table(tableRounds)).
		GroupBy("kind").
		OrderBy("kind").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate practice rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundStats
	for rows.Next() {
		var (
			s    RoundStats
			kind string
		)
		if err := rows.Scan(&kind, &s.Rounds, &s.Correct); err != nil {
			return nil, fmt.Errorf("scan round stats: %w", err)
		}
		s.Kind = RoundKind(kind)
		out = append(out, s)
	}
	return out, rows.Err()
}
