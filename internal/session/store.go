package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultSessionTTL = 30 * time.Minute

// Store persists conversation state between turns. The platform serializes
// turns per conversation, so reads and writes need no locking.
type Store interface {
	Get(ctx context.Context, conversationID string) (*State, error)
	Put(ctx context.Context, st State) error
	Delete(ctx context.Context, conversationID string) error
}

// RedisStore keeps session state as JSON with a sliding TTL; conversations
// are minutes long and an expired session simply restarts as a new one.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func (s *RedisStore) key(conversationID string) string {
	return "trivia:session:" + conversationID
}

func (s *RedisStore) Get(ctx context.Context, conversationID string) (*State, error) {
	data, err := s.client.Get(ctx, s.key(conversationID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("corrupted session state, dropping")
		_ = s.client.Del(ctx, s.key(conversationID)).Err()
		return nil, nil
	}
	return &st, nil
}

func (s *RedisStore) Put(ctx context.Context, st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(st.ConversationID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, conversationID string) error {
	return s.client.Del(ctx, s.key(conversationID)).Err()
}
