package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

var _ Provider = (*Hashing)(nil)

// Hashing is an offline, deterministic Provider. Each lower-cased word is
// hashed into one of dims buckets and the result is L2-normalised, so texts
// sharing words land close together. It backs the "mock" provider and tests.
type Hashing struct {
	dims int
}

// NewHashing creates a Hashing provider producing vectors of length dims.
func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = 8
	}
	return &Hashing{dims: dims}
}

// Embed implements Provider.
func (h *Hashing) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, h.dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		f := fnv.New32a()
		f.Write([]byte(w))
		vec[f.Sum32()%uint32(h.dims)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

// EmbedBatch implements Provider.
func (h *Hashing) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := h.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Dimensions implements Provider.
func (h *Hashing) Dimensions() int { return h.dims }

// ModelID implements Provider.
func (h *Hashing) ModelID() string { return "hashing" }

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
