package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/gokatarajesh/docquiz/internal/quiz"
)

const (
	defaultModel   = "gemini-2.0-flash-lite"
	defaultTimeout = 60 * time.Second
)

// ErrEmptyResponse is returned when the model produced no text candidate.
var ErrEmptyResponse = errors.New("model returned no text")

// Config holds connection details for the Gemini model.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// Temperature is applied when non-negative.
	Temperature float32
}

// GeminiGenerator implements quiz.Generator on the Gemini API.
type GeminiGenerator struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
	logger  zerolog.Logger
}

var _ quiz.Generator = (*GeminiGenerator)(nil)

func NewGeminiGenerator(ctx context.Context, cfg Config, logger zerolog.Logger) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key not configured")
	}
	name := strings.TrimSpace(cfg.Model)
	if name == "" {
		name = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(name)
	if cfg.Temperature >= 0 {
		model.SetTemperature(cfg.Temperature)
	}

	return &GeminiGenerator{
		client:  client,
		model:   model,
		name:    name,
		timeout: timeout,
		logger:  logger.With().Str("component", "gemini_generator").Str("model", name).Logger(),
	}, nil
}

// Model reports the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.name
}

// Generate sends a single prompt and returns the concatenated text of the
// first candidate. There are no retries.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("gemini request failed")
		return "", err
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	g.logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("prompt_chars", len(prompt)).
		Int("reply_chars", len(text)).
		Msg("gemini reply received")
	return text, nil
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("%w: prompt blocked (%s)", ErrEmptyResponse, resp.PromptFeedback.BlockReason)
		}
		return "", ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
