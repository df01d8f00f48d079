package quiz

import (
	"fmt"
	"strings"
)

// DefaultMaxContentChars bounds how much source text is embedded in a prompt.
const DefaultMaxContentChars = 3000

// BuildPrompt renders the generation prompt using DefaultMaxContentChars.
func BuildPrompt(opts Options) string {
	return buildPrompt(opts, DefaultMaxContentChars)
}

func buildPrompt(opts Options, maxChars int) string {
	opts = opts.WithDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d quiz questions based on the following content.\n\n", *opts.NumQuestions)
	fmt.Fprintf(&b, "Difficulty: %s\n", opts.Difficulty)
	fmt.Fprintf(&b, "Question Type: %s\n\n", opts.QuestionType)
	b.WriteString("Content:\n")
	b.WriteString(truncateRunes(opts.Content, maxChars))
	b.WriteString("\n\n")
	b.WriteString(promptFormat)
	return b.String()
}

// truncateRunes keeps the first n code points of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

const promptFormat = `Please generate the questions in JSON format with this exact structure:
{
    "questions": [
        {
            "question": "Question text",
            "type": "multiple_choice" or "true_false",
            "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
            "correctAnswer": 0,
            "explanation": "Why this answer is correct"
        }
    ]
}

Rules:
- For multiple choice: provide 4 options, correctAnswer is the index (0-3)
- For true/false: provide options as ["True", "False"], correctAnswer is 0 or 1
- Make sure questions are clear and testable
- Vary difficulty if set to 'mixed'
- If question_type is 'mixed', use both multiple_choice and true_false
- Always return valid JSON
- Do not include any text before or after the JSON`
