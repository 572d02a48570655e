package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langquiz/internal/generation"
	"github.com/abhisek/langquiz/internal/llm"
)

const structured = "Here you go:\n```json\n" + `[
  {
    "question": "¿Cuál es la posición de la Tierra con respecto al Sol?",
    "options": ["La primera", "La segunda", "La tercera"],
    "answer": "la tercera",
    "comment": "¡Es el tercer planeta!"
  },
  {"question": "  ", "answer": "dropped"},
  {"question": "¿Qué planeta es rojo?", "answer": "Marte"}
]` + "\n```"

func TestParse(t *testing.T) {
	recs, err := Parse(structured)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "La tercera", recs[0].CorrectOption)
	assert.Equal(t, "¡Es el tercer planeta!", recs[0].Comment)
	assert.Equal(t, "Marte", recs[1].Answer)
	assert.Empty(t, recs[1].CorrectOption)
}

func TestParse_Malformed(t *testing.T) {
	for _, text := range []string{"no json here", `{"question": "object, not array"}`, `[{"question": 3}]`} {
		_, err := Parse(text)
		assert.ErrorIs(t, err, ErrMalformed, text)
	}
}

func TestParse_EmptyArray(t *testing.T) {
	recs, err := Parse("[]")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStructure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(structured))
	s := NewStructurer(generation.New(mock))

	recs, err := s.Structure(context.Background(), "Pregunta uno. ¿Cuál es la posición de la Tierra?")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Contains(t, mock.LastPrompt(), "Here's the transcript:\nPregunta uno.")
}

func TestStructure_Errors(t *testing.T) {
	s := NewStructurer(generation.New(llm.NewMockProvider()))
	_, err := s.Structure(context.Background(), " \n")
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	s = NewStructurer(generation.New(llm.NewMockProvider(llm.MockError(errors.New("down")))))
	_, err = s.Structure(context.Background(), "texto")
	assert.ErrorIs(t, err, ErrNoResponse)

	s = NewStructurer(generation.New(llm.NewMockProvider(llm.MockText("sorry"))))
	_, err = s.Structure(context.Background(), "texto")
	assert.ErrorIs(t, err, ErrMalformed)
}
