package generation

// Preset is a named set of sampling parameters.
type Preset struct {
	Name            string
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

var (
	// QuestionPreset drives quiz question generation.
	QuestionPreset = Preset{Name: "question", Temperature: 0.7, TopP: 0.9, TopK: 40, MaxOutputTokens: 2048}

	// FeedbackPreset drives answer feedback.
	FeedbackPreset = Preset{Name: "feedback", Temperature: 0.7, TopP: 0.9, TopK: 40, MaxOutputTokens: 2048}

	// TranslationPreset is for short deterministic rewrites such as topic names.
	TranslationPreset = Preset{Name: "translation", Temperature: 0.2, TopP: 0.9, TopK: 40, MaxOutputTokens: 64}

	// ReviewPreset drives handwriting review.
	ReviewPreset = Preset{Name: "review", Temperature: 0.4, TopP: 0.9, TopK: 40, MaxOutputTokens: 1024}

	// CreativePreset is for practice sentences.
	CreativePreset = Preset{Name: "creative", Temperature: 0.9, TopP: 0.95, TopK: 40, MaxOutputTokens: 2048}

	// ChatPreset is for free-form tutoring conversation.
	ChatPreset = Preset{Name: "chat", Temperature: 0.6, TopP: 0.9, TopK: 40, MaxOutputTokens: 1024}

	// ExtractionPreset pulls structured data out of long text.
	ExtractionPreset = Preset{Name: "extraction", Temperature: 0.1, TopP: 0.9, TopK: 40, MaxOutputTokens: 4096}
)
