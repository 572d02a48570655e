package retrieval

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/langquiz/internal/embeddings"
)

const sampleQuestions = `[
  {
    "question": "¿Cuál es la posición de la Tierra con respecto al Sol?",
    "options": ["La primera", "La segunda", "La tercera"],
    "answer": "La tercera",
    "comment": "¡Es el tercer planeta después de Mercurio y Venus!"
  },
  {
    "question": "¿Qué planeta es conocido como el planeta rojo?",
    "options": ["Marte", "Júpiter"],
    "answer": "Marte",
    "correct_option": "1"
  },
  {
    "question": "¿Cuál es el río más largo de Europa?",
    "answer": "El Volga"
  }
]`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "R-kepxbu5fM.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleQuestions), 0o644))
	return path
}

func TestSourceID(t *testing.T) {
	assert.Equal(t, "R-kepxbu5fM", SourceID("data/questions/R-kepxbu5fM.json"))
	assert.Equal(t, "plain", SourceID("plain"))
}

func TestParseQuestionsFile(t *testing.T) {
	recs, err := ParseQuestionsFile(writeSample(t))
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"La primera", "La segunda", "La tercera"}, recs[0].Options)
	assert.Equal(t, "La tercera", recs[0].Answer)
	assert.Equal(t, "1", recs[1].CorrectOption)
	assert.Empty(t, recs[2].Options)
}

func TestParseQuestions_Invalid(t *testing.T) {
	_, err := ParseQuestions([]byte(`{"question": "not an array"}`))
	assert.Error(t, err)
}

func TestWriteQuestionsFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	in := []Record{{Question: "¿Hola?", Options: []string{"a", "b"}, Answer: "a"}}
	require.NoError(t, WriteQuestionsFile(path, in))

	out, err := ParseQuestionsFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func newLoaded(t *testing.T) (*MemoryIndex, embeddings.Provider) {
	t.Helper()
	ctx := context.Background()
	emb := embeddings.NewHashing(64)
	idx := NewMemoryIndex()
	loader, err := NewLoader(ctx, emb, idx, Options{BatchSize: 2})
	require.NoError(t, err)

	n, err := loader.IndexFile(ctx, writeSample(t))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	return idx, emb
}

func TestLoader_AssignsSourceIDs(t *testing.T) {
	idx, _ := newLoaded(t)
	ctx := context.Background()

	for i, want := range []string{"R-kepxbu5fM_0", "R-kepxbu5fM_1", "R-kepxbu5fM_2"} {
		rec, err := idx.Get(ctx, want)
		require.NoError(t, err)
		require.NotNil(t, rec, want)
		assert.Equal(t, "R-kepxbu5fM", rec.SourceID)
		assert.Equal(t, i, rec.Position)
	}

	missing, err := idx.Get(ctx, "R-kepxbu5fM_9")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLoader_ReindexReplaces(t *testing.T) {
	ctx := context.Background()
	emb := embeddings.NewHashing(16)
	idx := NewMemoryIndex()
	loader, err := NewLoader(ctx, emb, idx, Options{})
	require.NoError(t, err)

	path := writeSample(t)
	_, err = loader.IndexFile(ctx, path)
	require.NoError(t, err)
	_, err = loader.IndexFile(ctx, path)
	require.NoError(t, err)

	n, _ := idx.Count(ctx)
	assert.Equal(t, 3, n)
}

func TestLoader_Recreate(t *testing.T) {
	idx, emb := newLoaded(t)
	ctx := context.Background()

	_, err := NewLoader(ctx, emb, idx, Options{})
	require.NoError(t, err)
	n, _ := idx.Count(ctx)
	assert.Equal(t, 3, n, "loader without Recreate keeps data")

	_, err = NewLoader(ctx, emb, idx, Options{Recreate: true})
	require.NoError(t, err)
	n, _ = idx.Count(ctx)
	assert.Zero(t, n)
}

func TestLoader_IndexDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(sampleQuestions), 0o644))
	require.NoError(t, WriteQuestionsFile(filepath.Join(dir, "b.json"), []Record{{Question: "¿Qué hora es?"}}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	idx := NewMemoryIndex()
	loader, err := NewLoader(ctx, embeddings.NewHashing(16), idx, Options{})
	require.NoError(t, err)

	n, err := loader.IndexDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	rec, err := idx.Get(ctx, "b_0")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "¿Qué hora es?", rec.Question)

	n, err = loader.IndexDir(ctx, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoader_IndexDirSkipsMalformedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte("{not json"), 0o644))
	require.NoError(t, WriteQuestionsFile(filepath.Join(dir, "b.json"), []Record{{Question: "¿Dónde está el baño?"}}))

	idx := NewMemoryIndex()
	loader, err := NewLoader(ctx, embeddings.NewHashing(16), idx, Options{})
	require.NoError(t, err)

	n, err := loader.IndexDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec, err := idx.Get(ctx, "b_0")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "¿Dónde está el baño?", rec.Question)
}

func TestLoader_EmptySourceID(t *testing.T) {
	ctx := context.Background()
	loader, err := NewLoader(ctx, embeddings.NewHashing(8), NewMemoryIndex(), Options{})
	require.NoError(t, err)
	_, err = loader.IndexRecords(ctx, "", []Record{{Question: "x"}})
	assert.Error(t, err)
}

func TestSearcher_RanksBySimilarity(t *testing.T) {
	idx, emb := newLoaded(t)
	s := NewSearcher(emb, idx)

	got := s.Search(context.Background(), "planeta rojo", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "¿Qué planeta es conocido como el planeta rojo?", got[0].QuestionText)
	assert.Equal(t, "Marte", got[0].AnswerText)
	assert.GreaterOrEqual(t, got[0].Similarity, got[1].Similarity)
}

func TestSearcher_TopKLargerThanIndex(t *testing.T) {
	idx, emb := newLoaded(t)
	got := NewSearcher(emb, idx).Search(context.Background(), "Astronomía", 10)
	assert.Len(t, got, 3)
}

type failingEmbedder struct{ *embeddings.Hashing }

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("quota exceeded")
}

type failingIndex struct{ *MemoryIndex }

func (failingIndex) Query(context.Context, []float32, int) ([]Match, error) {
	return nil, errors.New("connection refused")
}

func TestSearcher_FailuresYieldEmpty(t *testing.T) {
	ctx := context.Background()
	idx, emb := newLoaded(t)

	tests := []struct {
		name string
		s    *Searcher
		q    string
		k    int
	}{
		{"embed failure", NewSearcher(failingEmbedder{embeddings.NewHashing(8)}, idx), "planeta", 3},
		{"index failure", NewSearcher(emb, failingIndex{NewMemoryIndex()}), "planeta", 3},
		{"empty query", NewSearcher(emb, idx), "   ", 3},
		{"zero topK", NewSearcher(emb, idx), "planeta", 0},
		{"nil searcher", nil, "planeta", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.s.Search(ctx, tt.q, tt.k)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Upsert(ctx, []Entry{{Record: Record{ID: "a"}, Embedding: []float32{1, 0}}}))
	_, err := idx.Query(ctx, []float32{1, 0, 0}, 1)
	assert.Error(t, err)
}

func TestMemoryIndex_RejectsMissingID(t *testing.T) {
	err := NewMemoryIndex().Upsert(context.Background(), []Entry{{Embedding: []float32{1}}})
	assert.Error(t, err)
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0, cosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 1, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2, cosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.InDelta(t, 1, cosineDistance([]float32{0, 0}, []float32{1, 0}), 1e-9)
}
