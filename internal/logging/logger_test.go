package logging

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewParsesLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("docquiz", "development", "debug").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("docquiz", "development", "").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("docquiz", "production", "nonsense").GetLevel())
}

func TestContextRoundTrip(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.WarnLevel)
	ctx := IntoContext(context.Background(), logger)

	assert.Equal(t, zerolog.WarnLevel, FromContext(ctx).GetLevel())
	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())
}
