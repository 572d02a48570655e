package sentences

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langquiz/internal/generation"
	"github.com/abhisek/langquiz/internal/llm"
)

func seeded() Option { return WithRand(rand.New(rand.NewPCG(1, 2))) }

func TestGroupsComplete(t *testing.T) {
	require.Len(t, Groups, len(GroupNames))
	for _, name := range GroupNames {
		assert.NotEmpty(t, Groups[name], name)
	}
}

func TestNext_BuiltinWithoutAI(t *testing.T) {
	mock := llm.NewMockProvider()
	g := NewGenerator(generation.New(mock), seeded())

	s, err := g.Next(context.Background(), "Food", false)
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, s.Source)
	assert.Contains(t, Groups["Food"], Sentence{English: s.English, Spanish: s.Spanish})
	assert.Zero(t, mock.CallCount())
}

func TestNext_BuiltinUsesModel(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("```json\n{\"english\": \"I eat bread.\", \"spanish\": \"Como pan.\"}\n```"))
	g := NewGenerator(generation.New(mock), seeded(), WithAIChance(1))

	s, err := g.Next(context.Background(), "Food", true)
	require.NoError(t, err)
	assert.Equal(t, Sentence{English: "I eat bread.", Spanish: "Como pan.", Source: SourceModel}, s)
	assert.Contains(t, mock.LastPrompt(), `about the topic: "Food"`)
}

func TestNext_BuiltinChanceZeroSkipsModel(t *testing.T) {
	mock := llm.NewMockProvider()
	g := NewGenerator(generation.New(mock), seeded(), WithAIChance(0))

	s, err := g.Next(context.Background(), "Travel", true)
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, s.Source)
	assert.Zero(t, mock.CallCount())
}

func TestNext_BuiltinFallsBackOnBadModelOutput(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"english": "only half"}`))
	g := NewGenerator(generation.New(mock), seeded(), WithAIChance(1))

	s, err := g.Next(context.Background(), "Travel", true)
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, s.Source)
}

func TestNext_CustomTopic(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"english": "The sun is a star.", "spanish": "El sol es una estrella."}`))
	g := NewGenerator(generation.New(mock), seeded(), WithStructuredOutput(true))

	s, err := g.Next(context.Background(), "Astronomy", false)
	require.NoError(t, err)
	assert.Equal(t, SourceModel, s.Source)
	assert.Equal(t, "El sol es una estrella.", s.Spanish)
	require.Equal(t, 1, mock.CallCount())
	assert.NotNil(t, mock.Calls[0].Schema)
}

func TestNext_CustomTopicFallback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockError(errors.New("down")))
	g := NewGenerator(generation.New(mock), seeded())

	s, err := g.Next(context.Background(), "Astronomy", true)
	require.NoError(t, err)
	assert.Equal(t, Sentence{
		English: "I am learning about Astronomy.",
		Spanish: "Estoy aprendiendo sobre Astronomy.",
		Source:  SourceFallback,
	}, s)
}

func TestNext_NilClient(t *testing.T) {
	g := NewGenerator(nil, seeded(), WithAIChance(1))

	s, err := g.Next(context.Background(), "Greetings", true)
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, s.Source)
}

func TestNext_BlankGroup(t *testing.T) {
	_, err := NewGenerator(nil).Next(context.Background(), "  ", true)
	assert.ErrorIs(t, err, ErrNoGroup)
}

func TestSchema(t *testing.T) {
	props, ok := Schema.Definition["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "english")
	assert.Contains(t, props, "spanish")
	assert.NotContains(t, props, "Source")
}
