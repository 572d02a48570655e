package quiz

import "github.com/abhisek/langquiz/internal/llm"

// QuestionSchema is sent when native structured output is enabled.
// Field names match the free-text prompt so one parser serves both.
var QuestionSchema = &llm.Schema{
	Name:        "spanish-quiz-question",
	Description: "A single multiple-choice question in Spanish",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Question": map[string]any{
				"type":        "string",
				"description": "The question text in Spanish",
			},
			"Options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    MinOptions,
				"maxItems":    MaxOptions,
				"description": "Possible answers in Spanish, exactly one correct",
			},
			"CorrectAnswer": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"maximum":     MaxOptions,
				"description": "1-based number of the correct option",
			},
			"Context": map[string]any{
				"type":        "string",
				"description": "A brief scenario in Spanish that introduces the question",
			},
		},
		"required":             []any{"Question", "Options", "CorrectAnswer", "Context"},
		"additionalProperties": false,
	},
}

// FeedbackSchema is the structured form of the feedback response.
var FeedbackSchema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "A verdict and English explanation for a learner's answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the selected option is the correct one",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Explanation in English covering the content and the Spanish used",
			},
			"correct_answer": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "1-based number of the correct option",
			},
		},
		"required":             []any{"correct", "explanation", "correct_answer"},
		"additionalProperties": false,
	},
}
