package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableLLMEvents, tableRounds, "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}
}

func TestLLMEvents_AppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini-2.0-flash", Model: "gemini-2.0-flash", Purpose: "quiz-question", InputTokens: 100, OutputTokens: 40, LatencyMs: 300, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "gemini-2.0-flash", Model: "gemini-2.0-flash", Purpose: "quiz-feedback", InputTokens: 80, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "gemini-2.0-flash", Model: "gemini-2.0-flash", Purpose: "quiz-question", LatencyMs: 500, ErrorMessage: "timeout"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Sequence <= all[1].Sequence {
		t.Errorf("expected newest first, got sequences %d, %d", all[0].Sequence, all[1].Sequence)
	}
	if all[0].Success || all[0].ErrorMessage != "timeout" {
		t.Errorf("unexpected newest event: %+v", all[0])
	}

	questions, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "quiz-question", Limit: 1})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(questions) != 1 || questions[0].Purpose != "quiz-question" {
		t.Fatalf("unexpected filtered events: %+v", questions)
	}

	first := all[2]
	got, err := repo.GetLLMEvent(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "req" || got.ResponseBody != "resp" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if time.Since(got.Timestamp) > time.Minute {
		t.Errorf("timestamp not recent: %s", got.Timestamp)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "gemini-2.0-flash", Purpose: "quiz-question", InputTokens: 100, OutputTokens: 50, LatencyMs: 200},
		{Model: "gemini-2.0-flash", Purpose: "quiz-question", InputTokens: 120, OutputTokens: 30, LatencyMs: 400},
		{Model: "gpt-4o-mini", Purpose: "topic-translate", InputTokens: 10, OutputTokens: 2, LatencyMs: 50},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	q := byPurpose[0]
	if q.Purpose != "quiz-question" || q.Calls != 2 || q.InputTokens != 220 || q.OutputTokens != 80 || q.AvgLatencyMs != 300 {
		t.Errorf("unexpected question usage: %+v", q)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gemini-2.0-flash" {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}

func TestRounds_AppendQueryStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	rounds := []RoundEventData{
		{RoundID: "r1", Kind: RoundQuiz, Topic: "Astronomía", Prompt: "¿Cuál es el planeta más grande?", Answer: "Júpiter", IsCorrect: true, LocalCorrect: true, VerdictSource: "model"},
		{RoundID: "r2", Kind: RoundQuiz, Topic: "Historia", Prompt: "¿Quién...?", Answer: "Colón", IsCorrect: false, LocalCorrect: false, VerdictSource: "model"},
		{RoundID: "r3", Kind: RoundHandwriting, Prompt: "Good morning", Answer: "Buenos días", IsCorrect: true, VerdictSource: "marker"},
	}
	for _, r := range rounds {
		if err := repo.AppendRound(ctx, r); err != nil {
			t.Fatalf("append round: %v", err)
		}
	}

	quiz, err := repo.QueryRounds(ctx, QueryOpts{Kind: RoundQuiz})
	if err != nil {
		t.Fatalf("query rounds: %v", err)
	}
	if len(quiz) != 2 || quiz[0].RoundID != "r2" {
		t.Fatalf("unexpected quiz rounds: %+v", quiz)
	}

	stats, err := repo.RoundStatsByKind(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d kinds, want 2", len(stats))
	}
	// Ordered by kind: handwriting, quiz.
	if stats[1].Kind != RoundQuiz || stats[1].Rounds != 2 || stats[1].Correct != 1 {
		t.Errorf("unexpected quiz stats: %+v", stats[1])
	}
	if got := stats[1].Accuracy(); got != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", got)
	}
	if (RoundStats{}).Accuracy() != 0 {
		t.Error("expected zero accuracy with no rounds")
	}
}

func TestRounds_RequireIDAndKind(t *testing.T) {
	s := openTestStore(t)
	if err := s.EventRepo().AppendRound(context.Background(), RoundEventData{Kind: RoundQuiz}); err == nil {
		t.Fatal("expected error for missing round ID")
	}
}

func TestSharedSequenceAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "quiz-feedback"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendRound(ctx, RoundEventData{RoundID: "r1", Kind: RoundQuiz}); err != nil {
		t.Fatal(err)
	}

	llmEvents, _ := repo.QueryLLMEvents(ctx, QueryOpts{})
	rounds, _ := repo.QueryRounds(ctx, QueryOpts{})
	if rounds[0].Sequence <= llmEvents[0].Sequence {
		t.Errorf("round sequence %d should follow LLM event %d", rounds[0].Sequence, llmEvents[0].Sequence)
	}

	after, err := repo.QueryRounds(ctx, QueryOpts{After: rounds[0].Sequence})
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 0 {
		t.Errorf("expected no rounds after latest sequence, got %d", len(after))
	}
}
