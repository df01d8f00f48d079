package document

import (
	"encoding/base64"
	"errors"
	"strings"
)

var errEmptyPayload = errors.New("empty payload")

// Only the standard alphabet is accepted; unpadded input is tolerated.
var fallbackEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
}

// Decode turns an uploaded base64 payload into raw document bytes.
// A "data:<mime>;base64," prefix and embedded whitespace are tolerated.
func Decode(payload string) ([]byte, error) {
	cleaned := stripDataURL(strings.TrimSpace(payload))
	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, cleaned)
	if cleaned == "" {
		return nil, newError(ErrInvalidEncoding, "Invalid base64 encoding", errEmptyPayload)
	}

	var firstErr error
	for _, enc := range fallbackEncodings {
		data, err := enc.DecodeString(cleaned)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, newError(ErrInvalidEncoding, "Invalid base64 encoding", firstErr)
}

func stripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if idx := strings.Index(s, ";base64,"); idx >= 0 {
		return s[idx+len(";base64,"):]
	}
	return s
}
