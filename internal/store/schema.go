package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	tableLLMEvents = "llm_request_events"
	tableRounds    = "practice_rounds"
)

// ddl creates every table the store needs. Timestamps are unix milliseconds.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp     INTEGER NOT NULL,
		provider      TEXT    NOT NULL DEFAULT '',
		model         TEXT    NOT NULL DEFAULT '',
		purpose       TEXT    NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       BOOLEAN NOT NULL DEFAULT 0,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_events_purpose ON llm_request_events (purpose)`,
	`CREATE TABLE IF NOT EXISTS practice_rounds (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence        INTEGER NOT NULL UNIQUE,
		timestamp       INTEGER NOT NULL,
		round_id        TEXT    NOT NULL,
		kind            TEXT    NOT NULL,
		topic           TEXT    NOT NULL DEFAULT '',
		prompt          TEXT    NOT NULL DEFAULT '',
		answer          TEXT    NOT NULL DEFAULT '',
		is_correct      BOOLEAN NOT NULL DEFAULT 0,
		local_correct   BOOLEAN NOT NULL DEFAULT 0,
		verdict_source  TEXT    NOT NULL DEFAULT '',
		explanation     TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_practice_rounds_kind ON practice_rounds (kind)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec ddl: %w", err)
		}
	}
	return nil
}
