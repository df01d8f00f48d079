package quiz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = 10 * time.Minute
	cacheKeyPrefix  = "quizgen:"
)

// Cache provides Redis-backed storage of parsed quiz objects so identical
// prompts skip the model round trip.
type Cache struct {
	client redis.Cmdable
	model  string
	ttl    time.Duration
}

var _ ResponseCache = (*Cache)(nil)

func NewCache(client redis.Cmdable, model string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, model: model, ttl: ttl}
}

func (c *Cache) key(prompt string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + prompt))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *Cache) Get(ctx context.Context, prompt string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(prompt)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (c *Cache) Set(ctx context.Context, prompt string, payload []byte) error {
	return c.client.Set(ctx, c.key(prompt), payload, c.ttl).Err()
}
