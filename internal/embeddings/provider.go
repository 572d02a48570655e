// Package embeddings maps text to dense vectors for similarity search over
// previously seen quiz questions.
package embeddings

import (
	"context"
	"fmt"
	"os"
)

// Provider is the abstraction over any text-embedding backend.
//
// Every vector returned by one Provider has length Dimensions(). Vectors from
// different providers must not be compared.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	// Embed computes the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch computes one vector per text, in order. On error the whole
	// result is nil.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the fixed vector length.
	Dimensions() int

	// ModelID returns the embedding model identifier.
	ModelID() string
}

// Config selects and configures an embeddings provider.
type Config struct {
	// Provider is one of "gemini", "openai", "ollama", "mock".
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`

	// Dimensions overrides the model's known vector length.
	Dimensions int `yaml:"dimensions"`
}

// DefaultConfig embeds with Gemini's text-embedding-004.
func DefaultConfig() Config {
	return Config{Provider: "gemini", Model: DefaultGeminiModel}
}

// ApplyEnv overlays LANGQUIZ_EMBED_* environment variables onto c. A Gemini
// provider without an explicit key reuses LANGQUIZ_GEMINI_API_KEY.
func (c *Config) ApplyEnv() {
	if p := os.Getenv("LANGQUIZ_EMBED_PROVIDER"); p != "" {
		c.Provider = p
	}
	if m := os.Getenv("LANGQUIZ_EMBED_MODEL"); m != "" {
		c.Model = m
	}
	if k := os.Getenv("LANGQUIZ_EMBED_API_KEY"); k != "" {
		c.APIKey = k
	}
	if u := os.Getenv("LANGQUIZ_EMBED_BASE_URL"); u != "" {
		c.BaseURL = u
	}
	if c.APIKey == "" {
		switch c.Provider {
		case "gemini":
			c.APIKey = os.Getenv("LANGQUIZ_GEMINI_API_KEY")
		case "openai":
			c.APIKey = os.Getenv("LANGQUIZ_OPENAI_API_KEY")
		}
	}
}

// New builds the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.Dimensions)
	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "ollama":
		return NewOllama(cfg.BaseURL, cfg.Model, cfg.Dimensions)
	case "mock":
		dims := cfg.Dimensions
		if dims == 0 {
			dims = 8
		}
		return NewHashing(dims), nil
	default:
		return nil, fmt.Errorf("unknown embeddings provider: %q", cfg.Provider)
	}
}
