package quiz

import (
	"encoding/json"
	"errors"
)

// Defaults applied to omitted generation options.
const (
	DefaultNumQuestions = 5
	DefaultDifficulty   = "mixed"
	DefaultQuestionType = "mixed"
	MinContentChars     = 100
)

// Question type values produced by the model.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
)

// Options is the quiz generation request body.
type Options struct {
	Content      string `json:"content"`
	NumQuestions *int   `json:"numQuestions,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	QuestionType string `json:"questionType,omitempty"`
}

// WithDefaults fills omitted fields. Values that are present pass through unchanged.
func (o Options) WithDefaults() Options {
	if o.NumQuestions == nil {
		n := DefaultNumQuestions
		o.NumQuestions = &n
	}
	if o.Difficulty == "" {
		o.Difficulty = DefaultDifficulty
	}
	if o.QuestionType == "" {
		o.QuestionType = DefaultQuestionType
	}
	return o
}

// Question is one generated quiz item.
type Question struct {
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Result is the JSON object parsed out of a model reply. It marshals back to
// exactly that object, keys the model added included.
type Result struct {
	raw json.RawMessage
}

func (r Result) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("{}"), nil
	}
	return r.raw, nil
}

// Raw returns the compacted JSON object.
func (r Result) Raw() json.RawMessage {
	return r.raw
}

// Questions decodes the "questions" member into typed questions.
func (r Result) Questions() ([]Question, error) {
	var envelope struct {
		Questions *[]Question `json:"questions"`
	}
	if err := json.Unmarshal(r.raw, &envelope); err != nil {
		return nil, err
	}
	if envelope.Questions == nil {
		return nil, errors.New(`missing "questions" array`)
	}
	return *envelope.Questions, nil
}
