package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type memoryCache struct {
	store  map[string][]byte
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, prompt string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	val, ok := c.store[prompt]
	return val, ok, nil
}

func (c *memoryCache) Set(_ context.Context, prompt string, payload []byte) error {
	c.store[prompt] = payload
	return nil
}

const validReply = "Here you go:\n" +
	`{"questions":[{"question":"Is the sky blue?","type":"true_false","options":["True","False"],"correctAnswer":0,"explanation":"Rayleigh scattering"}]}` +
	"\nEnjoy!"

func longContent(n int) string {
	return strings.Repeat("x", n)
}

func TestServiceRejectsShortContent(t *testing.T) {
	gen := &mockGenerator{}
	svc := NewService(gen, nil, ServiceOptions{}, zerolog.Nop())

	_, err := svc.Generate(context.Background(), Options{Content: longContent(MinContentChars - 1)})
	assert.True(t, errors.Is(err, ErrContentTooShort))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestServiceCountsCodePoints(t *testing.T) {
	gen := &mockGenerator{}
	svc := NewService(gen, nil, ServiceOptions{}, zerolog.Nop())

	// 99 two-byte runes is 198 bytes but still too short.
	_, err := svc.Generate(context.Background(), Options{Content: strings.Repeat("é", MinContentChars-1)})
	assert.True(t, errors.Is(err, ErrContentTooShort))
}

func TestServiceGeneratesQuiz(t *testing.T) {
	gen := &mockGenerator{}
	content := longContent(MinContentChars)
	gen.On("Generate", mock.Anything, BuildPrompt(Options{Content: content})).Return(validReply, nil).Once()

	svc := NewService(gen, nil, ServiceOptions{}, zerolog.Nop())
	result, err := svc.Generate(context.Background(), Options{Content: content})
	require.NoError(t, err)

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"questions":[{"question":"Is the sky blue?","type":"true_false","options":["True","False"],"correctAnswer":0,"explanation":"Rayleigh scattering"}]}`, string(out))
	gen.AssertExpectations(t)
}

func TestServicePropagatesParserErrors(t *testing.T) {
	cases := map[string]struct {
		reply string
		want  error
	}{
		"no json":   {reply: "I cannot help with that.", want: ErrNoJSONFound},
		"malformed": {reply: `{"questions": [}`, want: ErrMalformedJSON},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			gen := &mockGenerator{}
			gen.On("Generate", mock.Anything, mock.Anything).Return(tc.reply, nil)

			svc := NewService(gen, nil, ServiceOptions{}, zerolog.Nop())
			_, err := svc.Generate(context.Background(), Options{Content: longContent(150)})
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestServiceWrapsGeneratorFailure(t *testing.T) {
	upstream := errors.New("quota exceeded")
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return("", upstream)

	svc := NewService(gen, nil, ServiceOptions{}, zerolog.Nop())
	_, err := svc.Generate(context.Background(), Options{Content: longContent(150)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, upstream))
	assert.False(t, errors.Is(err, ErrNoJSONFound))
}

func TestServiceStrictValidation(t *testing.T) {
	reply := `{"questions":[{"question":"Q","type":"multiple_choice","options":["a","b"],"correctAnswer":0}]}`

	lenient := &mockGenerator{}
	lenient.On("Generate", mock.Anything, mock.Anything).Return(reply, nil)
	_, err := NewService(lenient, nil, ServiceOptions{}, zerolog.Nop()).
		Generate(context.Background(), Options{Content: longContent(150)})
	assert.NoError(t, err)

	strict := &mockGenerator{}
	strict.On("Generate", mock.Anything, mock.Anything).Return(reply, nil)
	_, err = NewService(strict, nil, ServiceOptions{StrictValidation: true}, zerolog.Nop()).
		Generate(context.Background(), Options{Content: longContent(150)})
	assert.True(t, errors.Is(err, ErrInvalidQuiz))
}

func TestServiceTruncatesWithConfiguredLimit(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Content:\n"+longContent(120)+"\n\n")
	})).Return(validReply, nil).Once()

	svc := NewService(gen, nil, ServiceOptions{MaxContentChars: 120}, zerolog.Nop())
	_, err := svc.Generate(context.Background(), Options{Content: longContent(500)})
	require.NoError(t, err)
	gen.AssertExpectations(t)
}

func TestServiceUsesCache(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(validReply, nil).Once()

	var observed []string
	cache := newMemoryCache()
	svc := NewService(gen, cache, ServiceOptions{OnCache: func(r string) { observed = append(observed, r) }}, zerolog.Nop())

	opts := Options{Content: longContent(150)}
	first, err := svc.Generate(context.Background(), opts)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.Raw(), second.Raw())
	assert.Equal(t, []string{CacheMiss, CacheHit}, observed)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestServiceIgnoresCacheFailures(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(validReply, nil)

	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")

	var observed []string
	svc := NewService(gen, cache, ServiceOptions{OnCache: func(r string) { observed = append(observed, r) }}, zerolog.Nop())

	_, err := svc.Generate(context.Background(), Options{Content: longContent(150)})
	require.NoError(t, err)
	assert.Equal(t, []string{CacheError}, observed)
}
