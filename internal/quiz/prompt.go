package quiz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/langquiz/internal/retrieval"
)

const exampleDelimiter = "---"

const generationInstructions = `You are a Spanish language learning assistant that creates engaging multiple-choice quiz questions.

INSTRUCTIONS:
1. Create a multiple-choice question in Spanish related to the topic: %s
2. The question should test the user's Spanish comprehension while teaching them about the topic
3. Make the question challenging but fair, like those in the examples below
4. Include 3-4 possible answers in Spanish with only one correct answer
5. Add a brief scenario or context in Spanish to make the question more interesting
6. Return ONLY a JSON object with the following fields:
   - Question: The question text in Spanish
   - Options: Array of possible answers in Spanish
   - CorrectAnswer: Number of the correct option (1-indexed)
   - Context: A brief scenario that introduces the question in Spanish
`

const generationFormat = `
FORMAT YOUR RESPONSE AS VALID JSON:
{
  "Question": "Your question in Spanish",
  "Options": ["Option 1 in Spanish", "Option 2 in Spanish", "Option 3 in Spanish"],
  "CorrectAnswer": 1,
  "Context": "Brief scenario in Spanish"
}
`

// BuildGenerationPrompt renders the question-generation prompt for topic.
// With no examples the EXAMPLES section is left out. The only error is an
// empty topic.
func BuildGenerationPrompt(topic string, examples []retrieval.Example) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", errors.New("build generation prompt: empty topic")
	}

	var b strings.Builder
	fmt.Fprintf(&b, generationInstructions, topic)
	if ctx := buildContext(examples); ctx != "" {
		b.WriteString("\nEXAMPLES FROM THE DATABASE:\n")
		b.WriteString(ctx)
		b.WriteString("\n")
	}
	b.WriteString(generationFormat)
	return b.String(), nil
}

// buildContext renders numbered example entries, each closed by the
// delimiter line. Examples with both options and a correct option use
// the detailed layout; the rest are shown as Q/A pairs.
func buildContext(examples []retrieval.Example) string {
	var lines []string
	for n, ex := range examples {
		lines = append(lines, fmt.Sprintf("EXAMPLE %d:", n+1))
		if len(ex.Options) > 0 && ex.CorrectOption != "" {
			lines = append(lines, "QUESTION: "+ex.QuestionText)
			for i, o := range ex.Options {
				lines = append(lines, fmt.Sprintf("OPTION %d: %s", i+1, o))
			}
			lines = append(lines, "CORRECT OPTION: "+ex.CorrectOption)
			if ex.AnswerText != "" {
				lines = append(lines, "ANSWER EXPLANATION: "+ex.AnswerText)
			}
		} else {
			lines = append(lines, "Q: "+ex.QuestionText)
			if ex.AnswerText != "" {
				lines = append(lines, "A: "+ex.AnswerText)
			}
		}
		lines = append(lines, exampleDelimiter)
	}
	return strings.Join(lines, "\n")
}

// BuildFeedbackPrompt renders the prompt asking the model to judge the
// learner's selection and explain it in English.
func BuildFeedbackPrompt(q *Question, selected int) string {
	var opts strings.Builder
	for i, o := range q.Options {
		fmt.Fprintf(&opts, "%d. %s\n", i+1, o)
	}

	return fmt.Sprintf(`You are a helpful Spanish language tutor providing feedback on a student's answer to a multiple-choice question.

CONTEXT:
Question in Spanish: %s

Options:
%s
Correct answer number: %d
Selected answer number: %d

TASK:
1. Determine if the student's answer is correct or incorrect
2. Provide a helpful explanation in English about why the answer is correct or incorrect
3. Include some educational points about both the content of the question and relevant Spanish vocabulary or grammar
4. Keep your explanation concise but informative
5. Return ONLY a JSON object with the following fields:
   - correct: boolean (true if the student's answer matches the correct answer)
   - explanation: string with your explanation in English
   - correct_answer: number of the correct option

FORMAT YOUR RESPONSE AS VALID JSON:
{
  "correct": true/false,
  "explanation": "Your explanation in English",
  "correct_answer": %d
}
`, q.Text, opts.String(), q.CorrectIndex, selected, q.CorrectIndex)
}
