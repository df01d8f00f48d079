package document

import "errors"

// Error kinds. Match with errors.Is.
var (
	ErrMissingInput      = errors.New("missing input")
	ErrInvalidEncoding   = errors.New("invalid encoding")
	ErrParseFailure      = errors.New("parse failure")
	ErrEmptyContent      = errors.New("empty content")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Error carries a client-facing message alongside its kind and cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// NoFileError reports an upload request that carried no file data.
func NoFileError() *Error {
	return newError(ErrMissingInput, "No file data provided", nil)
}
