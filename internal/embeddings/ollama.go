package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ollama/ollama/api"
)

// DefaultOllamaURL is where a local Ollama server listens.
const DefaultOllamaURL = "http://localhost:11434"

var _ Provider = (*Ollama)(nil)

// Ollama embeds text with a local Ollama server.
//
// Dimensions come from the explicit setting, then the table of known
// models, then a one-time probe request.
type Ollama struct {
	client *api.Client
	model  string

	dims       int
	detectOnce sync.Once
}

// NewOllama creates an Ollama embeddings provider. An empty baseURL means
// DefaultOllamaURL.
func NewOllama(baseURL, model string, dims int) (*Ollama, error) {
	if model == "" {
		return nil, fmt.Errorf("ollama embeddings: model must not be empty")
	}
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: parse base URL: %w", err)
	}
	if dims == 0 {
		dims = knownOllamaDimensions(model)
	}
	return &Ollama{
		client: api.NewClient(u, http.DefaultClient),
		model:  model,
		dims:   dims,
	}, nil
}

// Embed implements Provider.
func (p *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch implements Provider.
func (p *Ollama) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := p.client.Embed(ctx, &api.EmbedRequest{
		Model: p.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: embed batch: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embeddings: expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}
	return resp.Embeddings, nil
}

// Dimensions implements Provider. Returns 0 when the probe fails.
func (p *Ollama) Dimensions() int {
	p.detectOnce.Do(func() {
		if p.dims != 0 {
			return
		}
		vec, err := p.Embed(context.Background(), "probe")
		if err == nil {
			p.dims = len(vec)
		}
	})
	return p.dims
}

// ModelID implements Provider.
func (p *Ollama) ModelID() string { return p.model }

func knownOllamaDimensions(model string) int {
	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "nomic-embed-text"):
		return 768
	case strings.Contains(lower, "mxbai-embed-large"):
		return 1024
	case strings.Contains(lower, "all-minilm"):
		return 384
	default:
		return 0
	}
}
