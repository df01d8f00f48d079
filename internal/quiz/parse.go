package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSONFound means the reply holds no '{' or no '}'.
	ErrNoJSONFound = errors.New("Failed to parse AI response")
	// ErrMalformedJSON means the brace-delimited candidate is not a valid object.
	ErrMalformedJSON = errors.New("Invalid JSON response from AI")
)

// ParseResponse extracts the JSON object spanning the first '{' to the last
// '}' of raw. Braces are not balanced; prose containing braces around the
// object yields ErrMalformedJSON. The object is decoded and re-encoded, so a
// repeated key keeps its last value and keys come out sorted.
func ParseResponse(raw string) (*Result, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 {
		return nil, ErrNoJSONFound
	}

	var candidate string
	if end >= start {
		candidate = raw[start : end+1]
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &object); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedJSON, err.Error())
	}

	normalized, err := normalizeObject(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedJSON, err.Error())
	}
	return &Result{raw: normalized}, nil
}

// normalizeObject decodes candidate into generic values, keeping numbers as
// written, and marshals it back.
func normalizeObject(candidate string) ([]byte, error) {
	decoder := json.NewDecoder(strings.NewReader(candidate))
	decoder.UseNumber()

	var value map[string]any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	return json.Marshal(value)
}
