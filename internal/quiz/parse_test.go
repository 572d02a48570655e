package quiz

import (
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/langquiz/internal/retrieval"
)

func TestParseQuestion(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantText  string
		wantOpts  int
		wantIndex int
		wantErr   bool
	}{
		{
			name:      "fenced with prose",
			text:      "Aquí tienes:\n```json\n{\"Question\":\"¿Q?\",\"Options\":[\"A\",\"B\",\"C\"],\"CorrectAnswer\":3,\"Context\":\"x\"}\n```\n¡Suerte!",
			wantText:  "¿Q?",
			wantOpts:  3,
			wantIndex: 3,
		},
		{
			name:      "single-line fence",
			text:      "```json {\"Question\":\"¿Q?\",\"Options\":[\"A\",\"B\"],\"CorrectAnswer\":2,\"Context\":\"C\"} ```",
			wantText:  "¿Q?",
			wantOpts:  2,
			wantIndex: 2,
		},
		{
			name:      "single-line fence without spaces",
			text:      "```json{\"Question\":\"¿Q?\",\"Options\":[\"A\",\"B\"],\"CorrectAnswer\":2,\"Context\":\"C\"}```",
			wantText:  "¿Q?",
			wantOpts:  2,
			wantIndex: 2,
		},
		{
			name:      "lowercase keys",
			text:      `{"question":"¿Q?","options":["A","B"],"correct_answer":"2"}`,
			wantText:  "¿Q?",
			wantOpts:  2,
			wantIndex: 2,
		},
		{
			name:      "missing index defaults to 1",
			text:      `{"Question":"¿Q?","Options":["A","B"]}`,
			wantText:  "¿Q?",
			wantOpts:  2,
			wantIndex: 1,
		},
		{name: "no braces", text: "nothing here", wantErr: true},
		{name: "invalid json", text: "{Question: ¿Q?}", wantErr: true},
		{name: "empty text", text: `{"Question":"","Options":["A","B"]}`, wantErr: true},
		{name: "five options", text: `{"Question":"¿Q?","Options":["A","B","C","D","E"]}`, wantErr: true},
		{name: "blank option", text: `{"Question":"¿Q?","Options":["A"," "]}`, wantErr: true},
		{name: "duplicate options", text: `{"Question":"¿Q?","Options":["Marte","marte"]}`, wantErr: true},
		{name: "zero index", text: `{"Question":"¿Q?","Options":["A","B"],"CorrectAnswer":0}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuestion(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("err = %v, want ErrMalformedResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Text != tt.wantText || len(q.Options) != tt.wantOpts || q.CorrectIndex != tt.wantIndex {
				t.Errorf("got %+v", q)
			}
		})
	}
}

func TestParseQuestion_ValidationErrorUnwraps(t *testing.T) {
	_, err := ParseQuestion(`{"Question":"¿Q?","Options":["A"]}`)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError in chain, got %v", err)
	}
	if verr.Validator != "structural" {
		t.Errorf("validator = %q", verr.Validator)
	}
}

func TestBuildGenerationPrompt(t *testing.T) {
	p, err := BuildGenerationPrompt("Astronomía", astronomyExamples())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"related to the topic: Astronomía",
		"EXAMPLES FROM THE DATABASE:",
		"EXAMPLE 1:\nQUESTION: ¿Cuál es la posición de la Tierra con respecto al Sol?",
		"OPTION 3: La tercera",
		"CORRECT OPTION: La tercera",
		"ANSWER EXPLANATION: Es el tercer planeta.",
		"EXAMPLE 2:\nQ: ¿Qué planeta es conocido como el planeta rojo?\nA: Marte\n---",
		`"CorrectAnswer": 1`,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if n := strings.Count(p, "\n---"); n != 3 {
		t.Errorf("delimiter count = %d, want 3", n)
	}
}

func TestBuildGenerationPrompt_NoExamples(t *testing.T) {
	with, _ := BuildGenerationPrompt("Arte", []retrieval.Example{{QuestionText: "x"}})
	without, err := BuildGenerationPrompt("Arte", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(without, "EXAMPLES") {
		t.Error("examples section should be omitted")
	}
	instructions := strings.SplitN(with, "\nEXAMPLES", 2)[0]
	if !strings.HasPrefix(without, instructions) {
		t.Error("instructions should be identical with and without examples")
	}
}

func TestBuildGenerationPrompt_EmptyTopic(t *testing.T) {
	if _, err := BuildGenerationPrompt(" ", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildGenerationPrompt_Deterministic(t *testing.T) {
	a, _ := BuildGenerationPrompt("Historia", astronomyExamples())
	b, _ := BuildGenerationPrompt("Historia", astronomyExamples())
	if a != b {
		t.Error("prompt should be a pure function of its inputs")
	}
}

func TestBuildFeedbackPrompt(t *testing.T) {
	p := BuildFeedbackPrompt(sampleQuestion(), 3)
	for _, want := range []string{
		"Question in Spanish: ¿Cuál es el planeta más grande?",
		"1. Marte\n2. Júpiter\n3. Venus",
		"Correct answer number: 2",
		"Selected answer number: 3",
		"explanation in English",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
