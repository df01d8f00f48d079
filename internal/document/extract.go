package document

import (
	"context"
	"fmt"
	"strings"
)

// Format identifies an uploadable document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
)

// Label is the upper-case name used in client-facing messages.
func (f Format) Label() string {
	return strings.ToUpper(string(f))
}

// TextExtractor turns document bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, format Format) (string, error)
}

const defaultMaxXMLBytes = 64 << 20

// Extractor is the library-backed TextExtractor.
type Extractor struct {
	maxXMLBytes int64
}

var _ TextExtractor = (*Extractor)(nil)

// NewExtractor builds an Extractor. maxXMLBytes caps the uncompressed size of
// a DOCX body part; zero or negative selects the default.
func NewExtractor(maxXMLBytes int64) *Extractor {
	if maxXMLBytes <= 0 {
		maxXMLBytes = defaultMaxXMLBytes
	}
	return &Extractor{maxXMLBytes: maxXMLBytes}
}

// Extract returns the document text. PDF pages are concatenated without a
// separator; DOCX body paragraphs are joined with "\n".
func (e *Extractor) Extract(ctx context.Context, data []byte, format Format) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = readPDF(ctx, data)
	case FormatDocx:
		text, err = readDocx(ctx, data, e.maxXMLBytes)
	default:
		return "", newError(ErrUnsupportedFormat, "Unsupported document format", fmt.Errorf("%q", format))
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", newError(ErrParseFailure, "Failed to parse "+format.Label(), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", newError(ErrEmptyContent, emptyMessage(format), nil)
	}
	return text, nil
}

func emptyMessage(format Format) string {
	if format == FormatPDF {
		return "Could not extract text from PDF. The PDF might be empty or contain only images."
	}
	return "Could not extract text from " + format.Label() + ". The document might be empty."
}
