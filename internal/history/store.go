package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// UserHistory tracks what a user has already been asked across visits,
// keyed by the platform's opaque user identifier.
type UserHistory struct {
	Visits            int   `json:"visits"`
	PreviousQuestions []int `json:"previous_questions"`
}

// Store persists per-user history. Writes are best-effort: callers log and
// continue on failure so a slow store never fails a turn. Concurrent
// sessions for one user race on PreviousQuestions; last write wins, which
// at worst repeats a question the selector already tolerates.
type Store interface {
	Get(ctx context.Context, userKey string) (UserHistory, bool, error)
	Update(ctx context.Context, userKey string, hist UserHistory) error
}

// RedisStore keeps histories as JSON values without expiry.
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, logger zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) key(userKey string) string {
	return "trivia:user:" + userKey
}

func (s *RedisStore) Get(ctx context.Context, userKey string) (UserHistory, bool, error) {
	data, err := s.client.Get(ctx, s.key(userKey)).Bytes()
	if err == redis.Nil {
		return UserHistory{}, false, nil
	}
	if err != nil {
		return UserHistory{}, false, fmt.Errorf("get history: %w", err)
	}
	var hist UserHistory
	if err := json.Unmarshal(data, &hist); err != nil {
		s.logger.Warn().Err(err).Str("user_key", userKey).Msg("corrupted history, treating as new user")
		return UserHistory{}, false, nil
	}
	return hist, true, nil
}

func (s *RedisStore) Update(ctx context.Context, userKey string, hist UserHistory) error {
	data, err := json.Marshal(hist)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userKey), data, 0).Err(); err != nil {
		return fmt.Errorf("set history: %w", err)
	}
	return nil
}
