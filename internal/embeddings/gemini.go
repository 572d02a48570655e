package embeddings

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the Gemini embedding model used for question search.
const DefaultGeminiModel = "text-embedding-004"

const geminiDimensions = 768

var _ Provider = (*Gemini)(nil)

// Gemini embeds text with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	dims   int
}

// NewGemini creates a Gemini embeddings provider. dims of zero means the
// model's native 768 dimensions.
func NewGemini(ctx context.Context, apiKey, model string, dims int) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini embeddings: API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if dims == 0 {
		dims = geminiDimensions
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embeddings: create client: %w", err)
	}
	return &Gemini{client: client, model: model, dims: dims}, nil
}

// Embed implements Provider.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch implements Provider. Blank texts are embedded as a placeholder
// because the API rejects empty content.
func (g *Gemini) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		if isBlank(t) {
			t = "empty text"
		}
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}

	dims := int32(g.dims)
	resp, err := g.client.Models.EmbedContent(ctx, g.model, contents, &genai.EmbedContentConfig{
		TaskType:             "RETRIEVAL_DOCUMENT",
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embeddings: embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embeddings: expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	out := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("gemini embeddings: empty embedding at %d", i)
		}
		out[i] = e.Values
	}
	return out, nil
}

// Dimensions implements Provider.
func (g *Gemini) Dimensions() int { return g.dims }

// ModelID implements Provider.
func (g *Gemini) ModelID() string { return g.model }
