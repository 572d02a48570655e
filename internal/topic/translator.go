// Package topic maps a learner's topic name into the language of the
// question bank before retrieval.
package topic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/langquiz/internal/generation"
)

// Spanish is the target language code of the question bank.
const Spanish = "es"

// SpanishTopics translates the built-in topics.
var SpanishTopics = map[string]string{
	"Astronomy": "Astronomía",
	"Geography": "Geografía",
	"History":   "Historia",
	"Science":   "Ciencia",
	"Art":       "Arte",
	"Sports":    "Deportes",
	"Other":     "Otro",
}

// Topics lists the built-in topic names in menu order.
var Topics = []string{"Astronomy", "Geography", "History", "Science", "Art", "Sports", "Other"}

// Translator resolves a topic through the dictionary, then the cache, then
// the model. It never fails: the original topic is the last resort.
type Translator struct {
	client *generation.Client
	cache  Cache
	dict   map[string]string
	lang   string
	name   string
	logger *slog.Logger
}

// NewTranslator creates a Spanish translator. client and cache may be nil.
func NewTranslator(client *generation.Client, cache Cache) *Translator {
	return &Translator{
		client: client,
		cache:  cache,
		dict:   SpanishTopics,
		lang:   Spanish,
		name:   "Spanish",
		logger: slog.Default(),
	}
}

// BuildTranslationPrompt asks for a bare translation of topic.
func BuildTranslationPrompt(topic, language string) string {
	return fmt.Sprintf("Translate this topic from English to %s. Return ONLY the %s translation without any additional text or explanation: '%s'", language, language, topic)
}

// Translate returns topic in the target language.
func (t *Translator) Translate(ctx context.Context, topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return topic
	}
	if v, ok := t.lookup(topic); ok {
		return v
	}

	if t.cache != nil {
		v, ok, err := t.cache.Get(ctx, t.lang, topic)
		if err != nil {
			t.logger.WarnContext(ctx, "topic cache read failed", "topic", topic, "err", err)
		} else if ok {
			return v
		}
	}

	text, ok := t.client.Generate(ctx, "translation", BuildTranslationPrompt(topic, t.name), generation.TranslationPreset)
	if !ok {
		return topic
	}
	v := cleanTranslation(text)
	if v == "" {
		return topic
	}
	t.logger.DebugContext(ctx, "translated topic", "topic", topic, "translation", v)

	if t.cache != nil {
		if err := t.cache.Set(ctx, t.lang, topic, v); err != nil {
			t.logger.WarnContext(ctx, "topic cache write failed", "topic", topic, "err", err)
		}
	}
	return v
}

// lookup matches the dictionary exactly, then ignoring case.
func (t *Translator) lookup(topic string) (string, bool) {
	if v, ok := t.dict[topic]; ok {
		return v, true
	}
	for k, v := range t.dict {
		if strings.EqualFold(k, topic) {
			return v, true
		}
	}
	return "", false
}

// cleanTranslation keeps the first non-blank line without surrounding
// whitespace or quotes.
func cleanTranslation(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
