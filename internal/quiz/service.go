package quiz

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// ErrContentTooShort rejects content below MinContentChars code points.
var ErrContentTooShort = errors.New("Content is too short")

// Generator sends a prompt to a text model and returns its reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ResponseCache stores parsed quiz objects keyed by prompt (implemented by Redis-backed Cache).
type ResponseCache interface {
	Get(ctx context.Context, prompt string) ([]byte, bool, error)
	Set(ctx context.Context, prompt string, payload []byte) error
}

// Cache lookup outcomes reported to ServiceOptions.OnCache.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

type ServiceOptions struct {
	MaxContentChars  int
	StrictValidation bool
	// OnCache observes cache lookups when a cache is configured.
	OnCache func(result string)
}

// Service turns document text into a quiz: validate, prompt, generate, parse.
type Service struct {
	generator Generator
	cache     ResponseCache
	opts      ServiceOptions
	logger    zerolog.Logger
}

// NewService wires a Service. cache may be nil.
func NewService(generator Generator, cache ResponseCache, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.MaxContentChars <= 0 {
		opts.MaxContentChars = DefaultMaxContentChars
	}
	return &Service{
		generator: generator,
		cache:     cache,
		opts:      opts,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
	}
}

// Generate produces a quiz for opts. Content shorter than MinContentChars is
// rejected before the model is called.
func (s *Service) Generate(ctx context.Context, opts Options) (*Result, error) {
	if utf8.RuneCountInString(opts.Content) < MinContentChars {
		return nil, ErrContentTooShort
	}

	prompt := buildPrompt(opts, s.opts.MaxContentChars)

	if cached, ok := s.lookup(ctx, prompt); ok {
		return cached, nil
	}

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	result, err := ParseResponse(reply)
	if err != nil {
		s.logger.Warn().Err(err).Int("reply_chars", len(reply)).Msg("model reply not parseable")
		return nil, err
	}

	if s.opts.StrictValidation {
		if err := Validate(result); err != nil {
			return nil, err
		}
	}

	s.store(ctx, prompt, result)
	return result, nil
}

func (s *Service) lookup(ctx context.Context, prompt string) (*Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, ok, err := s.cache.Get(ctx, prompt)
	if err != nil {
		s.observe(CacheError)
		s.logger.Warn().Err(err).Msg("quiz cache lookup failed")
		return nil, false
	}
	if !ok {
		s.observe(CacheMiss)
		return nil, false
	}
	result, err := ParseResponse(string(payload))
	if err != nil {
		s.observe(CacheError)
		s.logger.Warn().Err(err).Msg("discarding unreadable cache entry")
		return nil, false
	}
	s.observe(CacheHit)
	return result, true
}

func (s *Service) store(ctx context.Context, prompt string, result *Result) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, prompt, result.Raw()); err != nil {
		s.logger.Warn().Err(err).Msg("quiz cache write failed")
	}
}

func (s *Service) observe(result string) {
	if s.opts.OnCache != nil {
		s.opts.OnCache(result)
	}
}
