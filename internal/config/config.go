// Package config loads langquiz settings from an optional YAML file and
// LANGQUIZ_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/langquiz/internal/embeddings"
	"github.com/abhisek/langquiz/internal/handwriting"
	"github.com/abhisek/langquiz/internal/llm"
	"github.com/abhisek/langquiz/internal/quiz"
	"github.com/abhisek/langquiz/internal/sentences"
	"github.com/abhisek/langquiz/internal/topic"
)

// Config is the complete application configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// DBPath is the SQLite event store. Empty means the default XDG path.
	DBPath string `yaml:"db_path"`

	LLM         llm.Config        `yaml:"llm"`
	Embeddings  embeddings.Config `yaml:"embeddings"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Quiz        QuizConfig        `yaml:"quiz"`
	Handwriting HandwritingConfig `yaml:"handwriting"`
	Topics      TopicsConfig      `yaml:"topics"`
	Sentences   SentencesConfig   `yaml:"sentences"`
}

// RetrievalConfig selects where indexed questions live.
type RetrievalConfig struct {
	// PostgresDSN selects the pgvector index. Empty means an in-memory
	// index loaded from QuestionsDir at startup.
	PostgresDSN  string `yaml:"postgres_dsn"`
	QuestionsDir string `yaml:"questions_dir"`
	TopK         int    `yaml:"top_k"`
}

type QuizConfig struct {
	// Policy is a reconcile policy name: trust-model, trust-local or
	// require-agreement.
	Policy           string `yaml:"policy"`
	StructuredOutput bool   `yaml:"structured_output"`
}

type HandwritingConfig struct {
	// Policy is marker-then-sentiment or marker-only.
	Policy string `yaml:"policy"`
}

// TopicsConfig configures the translation cache. Without a Redis URL
// translations are cached in memory for the life of the process.
type TopicsConfig struct {
	RedisURL string        `yaml:"redis_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type SentencesConfig struct {
	UseAI    bool    `yaml:"use_ai"`
	AIChance float64 `yaml:"ai_chance"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel:   "info",
		LLM:        llm.DefaultConfig(),
		Embeddings: embeddings.DefaultConfig(),
		Retrieval: RetrievalConfig{
			QuestionsDir: "data/questions",
			TopK:         quiz.DefaultTopK,
		},
		Quiz:        QuizConfig{Policy: quiz.TrustModel{}.Name()},
		Handwriting: HandwritingConfig{Policy: handwriting.MarkerThenSentiment{}.Name()},
		Topics:      TopicsConfig{CacheTTL: topic.DefaultRedisTTL},
		Sentences:   SentencesConfig{UseAI: true, AIChance: sentences.DefaultAIChance},
	}
}

// Load reads the YAML file at path over the defaults, applies the
// environment and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates the
// result. The environment is not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode(r, &cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overlays LANGQUIZ_* environment variables onto c.
func (c *Config) ApplyEnv() {
	c.LLM.ApplyEnv()
	c.Embeddings.ApplyEnv()

	setString(&c.LogLevel, "LANGQUIZ_LOG_LEVEL")
	setString(&c.DBPath, "LANGQUIZ_DB")
	setString(&c.Retrieval.PostgresDSN, "LANGQUIZ_POSTGRES_DSN")
	setString(&c.Retrieval.QuestionsDir, "LANGQUIZ_QUESTIONS_DIR")
	setString(&c.Quiz.Policy, "LANGQUIZ_POLICY")
	setString(&c.Handwriting.Policy, "LANGQUIZ_HANDWRITING_POLICY")
	setString(&c.Topics.RedisURL, "LANGQUIZ_REDIS_URL")

	if v := os.Getenv("LANGQUIZ_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Retrieval.TopK = n
		}
	}
	if v := os.Getenv("LANGQUIZ_STRUCTURED_OUTPUT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Quiz.StructuredOutput = b
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

var (
	validLogLevels          = []string{"debug", "info", "warn", "warning", "error"}
	validLLMProviders       = []string{"gemini", "openai", "anthropic", "openrouter", "mock"}
	validEmbeddingProviders = []string{"gemini", "openai", "ollama", "mock"}
)

// Validate checks that cfg is coherent and returns every problem found,
// joined. Missing API keys are not checked here; they are reported when a
// provider is built.
func Validate(cfg *Config) error {
	var errs []error

	if !slices.Contains(validLogLevels, strings.ToLower(cfg.LogLevel)) {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if !slices.Contains(validLLMProviders, cfg.LLM.Provider) {
		errs = append(errs, fmt.Errorf("llm.provider %q is invalid; valid values: %s", cfg.LLM.Provider, strings.Join(validLLMProviders, ", ")))
	}
	if !slices.Contains(validEmbeddingProviders, cfg.Embeddings.Provider) {
		errs = append(errs, fmt.Errorf("embeddings.provider %q is invalid; valid values: %s", cfg.Embeddings.Provider, strings.Join(validEmbeddingProviders, ", ")))
	}
	if cfg.Embeddings.Dimensions < 0 {
		errs = append(errs, fmt.Errorf("embeddings.dimensions must not be negative"))
	}
	if cfg.Retrieval.TopK <= 0 {
		errs = append(errs, fmt.Errorf("retrieval.top_k must be positive, got %d", cfg.Retrieval.TopK))
	}
	if _, err := quiz.PolicyByName(cfg.Quiz.Policy); err != nil {
		errs = append(errs, fmt.Errorf("quiz.policy: %w", err))
	}
	if _, err := handwriting.PolicyByName(cfg.Handwriting.Policy); err != nil {
		errs = append(errs, fmt.Errorf("handwriting.policy: %w", err))
	}
	if cfg.Topics.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("topics.cache_ttl must not be negative"))
	}
	if cfg.Sentences.AIChance < 0 || cfg.Sentences.AIChance > 1 {
		errs = append(errs, fmt.Errorf("sentences.ai_chance %.2f is out of range [0, 1]", cfg.Sentences.AIChance))
	}
	return errors.Join(errs...)
}
