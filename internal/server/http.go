package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/docquiz/internal/config"
	"github.com/gokatarajesh/docquiz/internal/document"
)

// Dependencies are the collaborators the HTTP layer serves.
type Dependencies struct {
	Extractor document.TextExtractor
	Quiz      QuizGenerator
	Metrics   *Metrics
	Gatherer  prometheus.Gatherer
}

// NewHTTPServer wires routes and middleware for the API service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Dependencies) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewHandler(cfg, logger, deps),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewHandler builds the routed, middleware-wrapped handler.
func NewHandler(cfg *config.App, logger zerolog.Logger, deps Dependencies) http.Handler {
	handlers := NewHandlers(deps.Extractor, deps.Quiz, deps.Metrics, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/extract-pdf", handlers.ExtractPDF)
	mux.HandleFunc("POST /api/extract-docx", handlers.ExtractDocx)
	mux.HandleFunc("POST /api/generate-quiz", handlers.GenerateQuiz)

	mux.HandleFunc("GET /{path...}", staticFiles(cfg.StaticDir))

	return chain(mux,
		Recover(logger),
		RequestLogger(logger),
		Instrument(deps.Metrics),
		CORS(cfg.CORS),
		LimitBody(cfg.MaxBodyBytes),
	)
}
