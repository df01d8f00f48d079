package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/docquiz/internal/config"
	"github.com/gokatarajesh/docquiz/internal/document"
	"github.com/gokatarajesh/docquiz/internal/logging"
	"github.com/gokatarajesh/docquiz/internal/quiz"
	"github.com/gokatarajesh/docquiz/internal/quiz/ai"
	"github.com/gokatarajesh/docquiz/internal/server"
)

// Application aggregates shared infrastructure (model client, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	generator *ai.GeminiGenerator
	redis     *redis.Client
	http      *http.Server
}

// New bootstraps logger, Gemini client, optional Redis cache and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	generator, err := ai.NewGeminiGenerator(ctx, ai.Config{
		APIKey:      cfg.AI.GeminiAPIKey,
		Model:       cfg.AI.Model,
		Timeout:     cfg.AI.Timeout,
		Temperature: cfg.AI.Temperature,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init gemini: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := server.NewMetrics(registry)

	var (
		redisClient *redis.Client
		cache       quiz.ResponseCache
	)
	if cfg.CacheEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable; cache lookups will fail open")
		}
		cache = quiz.NewCache(redisClient, generator.Model(), cfg.Quiz.CacheTTL)
		logger.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Quiz.CacheTTL).Msg("quiz response cache enabled")
	}

	quizSvc := quiz.NewService(generator, cache, quiz.ServiceOptions{
		MaxContentChars:  cfg.Quiz.MaxContentChars,
		StrictValidation: cfg.Quiz.StrictValidation,
		OnCache:          metrics.ObserveCache,
	}, logger)

	apiServer := server.NewHTTPServer(cfg, logger, server.Dependencies{
		Extractor: document.NewExtractor(0),
		Quiz:      quizSvc,
		Metrics:   metrics,
		Gatherer:  registry,
	})

	return &Application{
		cfg:       cfg,
		logger:    logger,
		generator: generator,
		redis:     redisClient,
		http:      apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.http.Addr).Str("static_dir", a.cfg.StaticDir).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	if err := a.generator.Close(); err != nil {
		a.logger.Error().Err(err).Msg("gemini client shutdown error")
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}
