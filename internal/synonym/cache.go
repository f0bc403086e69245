package synonym

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultCacheTTL = 24 * time.Hour

// Generator is what the cache wraps (implemented by Client).
type Generator interface {
	Generate(ctx context.Context, terms []string) ([][]string, error)
}

// CachedGenerator fronts the synonym service with a Redis cache. Entity
// synonym lists change rarely and the service call sits on the turn's
// latency path, so hits are worth a lot.
type CachedGenerator struct {
	inner  Generator
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedGenerator(inner Generator, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedGenerator {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedGenerator{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedGenerator) key(terms []string) string {
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return "trivia:synonyms:" + strings.Join(lowered, "|")
}

func (c *CachedGenerator) Generate(ctx context.Context, terms []string) ([][]string, error) {
	key := c.key(terms)
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached [][]string
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn().Str("key", key).Msg("dropping corrupted synonym cache entry")
		_ = c.client.Del(ctx, key).Err()
	}

	results, err := c.inner.Generate(ctx, terms)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(results); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Msg("synonym cache write failed")
		}
	}
	return results, nil
}
