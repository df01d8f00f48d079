package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/docquiz/internal/document"
	"github.com/gokatarajesh/docquiz/internal/logging"
	"github.com/gokatarajesh/docquiz/internal/quiz"
	httperrors "github.com/gokatarajesh/docquiz/pkg/http/errors"
)

// QuizGenerator produces a quiz from request options (implemented by quiz.Service).
type QuizGenerator interface {
	Generate(ctx context.Context, opts quiz.Options) (*quiz.Result, error)
}

// Outcome labels for extraction and generation metrics.
const (
	outcomeOK          = "ok"
	outcomeClientError = "client_error"
	outcomeServerError = "server_error"
)

// Handlers serves the document and quiz API.
type Handlers struct {
	extractor document.TextExtractor
	quiz      QuizGenerator
	metrics   *Metrics
	logger    zerolog.Logger
}

func NewHandlers(extractor document.TextExtractor, quizGen QuizGenerator, metrics *Metrics, logger zerolog.Logger) *Handlers {
	return &Handlers{
		extractor: extractor,
		quiz:      quizGen,
		metrics:   metrics,
		logger:    logger.With().Str("component", "http_handlers").Logger(),
	}
}

type extractRequest struct {
	File string `json:"file"`
}

type extractResponse struct {
	Text string `json:"text"`
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ExtractPDF handles POST /api/extract-pdf
func (h *Handlers) ExtractPDF(w http.ResponseWriter, r *http.Request) {
	h.extract(w, r, document.FormatPDF)
}

// ExtractDocx handles POST /api/extract-docx
func (h *Handlers) ExtractDocx(w http.ResponseWriter, r *http.Request) {
	h.extract(w, r, document.FormatDocx)
}

func (h *Handlers) extract(w http.ResponseWriter, r *http.Request, format document.Format) {
	logger := logging.FromContext(r.Context()).With().Str("format", string(format)).Logger()

	var req extractRequest
	if !h.decodeBody(w, r, &req) {
		h.metrics.observeExtraction(string(format), outcomeClientError)
		return
	}
	if req.File == "" {
		h.metrics.observeExtraction(string(format), outcomeClientError)
		httperrors.RespondBadRequest(w, document.NoFileError().Error())
		return
	}

	data, err := document.Decode(req.File)
	if err != nil {
		logger.Warn().Err(err).Msg("rejecting upload")
		h.metrics.observeExtraction(string(format), outcomeClientError)
		httperrors.RespondBadRequest(w, err.Error())
		return
	}
	logger.Debug().Int("decoded_bytes", len(data)).Msg("payload decoded")

	text, err := h.extractor.Extract(r.Context(), data, format)
	if err != nil {
		if isClientExtractionError(err) {
			logger.Warn().Err(err).Int("decoded_bytes", len(data)).Msg("extraction rejected")
			h.metrics.observeExtraction(string(format), outcomeClientError)
			httperrors.RespondBadRequest(w, err.Error())
			return
		}
		logger.Error().Err(err).Msg("extraction failed")
		h.metrics.observeExtraction(string(format), outcomeServerError)
		httperrors.RespondInternalError(w, "Server error: "+err.Error())
		return
	}

	logger.Info().
		Int("decoded_bytes", len(data)).
		Int("chars", utf8.RuneCountInString(text)).
		Msg("text extracted")
	h.metrics.observeExtraction(string(format), outcomeOK)
	httperrors.RespondJSON(w, http.StatusOK, extractResponse{Text: text})
}

func isClientExtractionError(err error) bool {
	return errors.Is(err, document.ErrMissingInput) ||
		errors.Is(err, document.ErrInvalidEncoding) ||
		errors.Is(err, document.ErrParseFailure) ||
		errors.Is(err, document.ErrEmptyContent)
}

// GenerateQuiz handles POST /api/generate-quiz
func (h *Handlers) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var opts quiz.Options
	if !h.decodeBody(w, r, &opts) {
		h.metrics.observeGeneration(outcomeClientError)
		return
	}

	result, err := h.quiz.Generate(r.Context(), opts)
	if err != nil {
		switch {
		case errors.Is(err, quiz.ErrContentTooShort),
			errors.Is(err, quiz.ErrNoJSONFound),
			errors.Is(err, quiz.ErrMalformedJSON),
			errors.Is(err, quiz.ErrInvalidQuiz):
			logger.Warn().Err(err).Msg("quiz generation rejected")
			h.metrics.observeGeneration(outcomeClientError)
			httperrors.RespondBadRequest(w, err.Error())
		default:
			logger.Error().Err(err).Msg("quiz generation failed")
			h.metrics.observeGeneration(outcomeServerError)
			httperrors.RespondInternalError(w, rootCause(err).Error())
		}
		return
	}

	h.metrics.observeGeneration(outcomeOK)
	httperrors.RespondJSON(w, http.StatusOK, result)
}

// rootCause strips wrapping added on the way up so clients see the
// underlying failure text.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// decodeBody reads a JSON request body into dst, answering 400 or 413 on failure.
func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("invalid request body")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperrors.RespondPayloadTooLarge(w, "Request body too large")
			return false
		}
		httperrors.RespondBadRequest(w, "Invalid JSON payload")
		return false
	}
	return true
}
