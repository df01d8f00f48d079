package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuiz is returned by strict validation when the parsed object
// does not describe a usable quiz.
var ErrInvalidQuiz = errors.New("AI response is not a valid quiz")

// Validate checks question shape: non-empty text, a known type, four options
// for multiple choice, True/False options for true/false and an in-range
// correctAnswer.
func Validate(result *Result) error {
	questions, err := result.Questions()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidQuiz, err.Error())
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidQuiz)
	}

	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return fmt.Errorf("%w: question %d: %s", ErrInvalidQuiz, i+1, err.Error())
		}
	}
	return nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("empty question text")
	}

	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) != 4 {
			return fmt.Errorf("expected 4 options, got %d", len(q.Options))
		}
	case TypeTrueFalse:
		if !isTrueFalseOptions(q.Options) {
			return errors.New(`options must be ["True", "False"]`)
		}
	default:
		return fmt.Errorf("unknown type %q", q.Type)
	}

	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("correctAnswer %d out of range", q.CorrectAnswer)
	}
	return nil
}

func isTrueFalseOptions(options []string) bool {
	return len(options) == 2 &&
		strings.EqualFold(strings.TrimSpace(options[0]), "true") &&
		strings.EqualFold(strings.TrimSpace(options[1]), "false")
}
