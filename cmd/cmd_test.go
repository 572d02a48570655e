package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/langquiz/internal/chat"
	"github.com/abhisek/langquiz/internal/generation"
	"github.com/abhisek/langquiz/internal/llm"
	"github.com/abhisek/langquiz/internal/store"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("langquiz %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestVersion(t *testing.T) {
	if got := run(t, "version"); !strings.HasPrefix(got, "langquiz ") {
		t.Errorf("version output = %q", got)
	}
}

func TestSentence_BuiltinWithoutModel(t *testing.T) {
	got := run(t, "sentence", "Travel", "--ai=false", "--show-spanish", "--db", filepath.Join(t.TempDir(), "q.db"))
	if !strings.Contains(got, "Spanish:") {
		t.Errorf("missing translation:\n%s", got)
	}
}

func TestHistory_ListsRecordedRounds(t *testing.T) {
	db := filepath.Join(t.TempDir(), "q.db")
	s, err := store.Open(db)
	if err != nil {
		t.Fatal(err)
	}
	err = s.EventRepo().AppendRound(context.Background(), store.RoundEventData{
		RoundID: "r1", Kind: store.RoundQuiz, Topic: "Astronomy",
		Prompt: "¿Cuál es el planeta más grande?", Answer: "Júpiter", IsCorrect: true, VerdictSource: "model",
	})
	s.Close()
	if err != nil {
		t.Fatal(err)
	}

	got := run(t, "history", "--db", db)
	for _, want := range []string{"Accuracy", "quiz", "Astronomy"} {
		if !strings.Contains(got, want) {
			t.Errorf("history output missing %q:\n%s", want, got)
		}
	}
}

func TestIndex_CopiesIntoQuestionsDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "R-abc.json")
	if err := os.WriteFile(src, []byte(`[{"question": "¿Qué hora es?", "answer": "Las tres"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	questions := filepath.Join(dir, "bank")
	t.Setenv("LANGQUIZ_QUESTIONS_DIR", questions)
	t.Setenv("LANGQUIZ_POSTGRES_DSN", "")

	got := run(t, "index", src, "--db", filepath.Join(dir, "q.db"))
	if !strings.Contains(got, "1 questions") {
		t.Errorf("index output = %q", got)
	}
	if _, err := os.Stat(filepath.Join(questions, "R-abc.json")); err != nil {
		t.Errorf("question file not copied: %v", err)
	}
}

func TestIndex_RecreateClearsQuestionsDir(t *testing.T) {
	dir := t.TempDir()
	questions := filepath.Join(dir, "bank")
	if err := os.MkdirAll(questions, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(questions, "old.json")
	if err := os.WriteFile(stale, []byte(`[{"question": "¿Vieja?"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	kept := filepath.Join(questions, "keep.json")
	if err := os.WriteFile(kept, []byte(`[{"question": "¿Sigue aquí?"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LANGQUIZ_QUESTIONS_DIR", questions)
	t.Setenv("LANGQUIZ_POSTGRES_DSN", "")
	t.Cleanup(func() { indexCmd.Flags().Set("recreate", "false") })

	got := run(t, "index", kept, "--recreate", "--db", filepath.Join(dir, "q.db"))
	if !strings.Contains(got, "2 question files") {
		t.Errorf("index output = %q", got)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale question file should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("indexed file should be rewritten: %v", err)
	}

	got = run(t, "index", "--recreate", "--db", filepath.Join(dir, "q.db"))
	if !strings.Contains(got, "Removed") || !strings.Contains(got, "1 question files") {
		t.Errorf("recreate without files output = %q", got)
	}
}

func TestChatLoop(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockText("Se dice «gracias»."),
		llm.MockError(errors.New("boom")),
		llm.MockText("Hola otra vez."),
	)
	session := chat.NewSession(generation.New(mock))
	in := bufio.NewReader(strings.NewReader("¿Cómo se dice thanks?\n\n¿Y please?\n/clear\nHola\n/exit\nnunca\n"))
	var out bytes.Buffer

	if err := chatLoop(context.Background(), &out, in, session); err != nil {
		t.Fatalf("chatLoop: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Se dice «gracias».", "could not answer", "Conversation cleared.", "Hola otra vez."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "nunca") || mock.CallCount() != 3 {
		t.Errorf("input after /exit must be ignored; calls = %d", mock.CallCount())
	}
	if n := len(mock.Calls[2].Messages); n != 1 {
		t.Errorf("history after /clear = %d messages, want 1", n)
	}
}

func TestChatLoop_EOFEnds(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("Vale."))
	session := chat.NewSession(generation.New(mock))
	var out bytes.Buffer

	err := chatLoop(context.Background(), &out, bufio.NewReader(strings.NewReader("Hola")), session)
	if err != nil {
		t.Fatalf("chatLoop: %v", err)
	}
	if !strings.Contains(out.String(), "Vale.") {
		t.Errorf("partial last line should be sent:\n%s", out.String())
	}
}
