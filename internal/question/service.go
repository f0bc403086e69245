package question

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultReloadInterval = 5 * time.Minute

// PoolSource abstracts where questions come from (Postgres in production).
type PoolSource interface {
	FetchPool(ctx context.Context) ([]Question, error)
}

// Service keeps an in-memory copy of the question pool and refreshes it
// periodically. Every turn reads the pool, so hitting the database each
// time would dominate turn latency.
type Service struct {
	source PoolSource
	reload time.Duration
	logger zerolog.Logger

	mu       sync.RWMutex
	pool     []Question
	loadedAt time.Time
}

func NewService(source PoolSource, reload time.Duration, logger zerolog.Logger) *Service {
	if reload <= 0 {
		reload = defaultReloadInterval
	}
	return &Service{
		source: source,
		reload: reload,
		logger: logger,
	}
}

// Pool returns the cached question pool, refreshing it when stale. A failed
// refresh falls back to the previous copy so a database blip does not kill
// live sessions.
func (s *Service) Pool(ctx context.Context) ([]Question, error) {
	s.mu.RLock()
	pool, loadedAt := s.pool, s.loadedAt
	s.mu.RUnlock()

	if pool != nil && time.Since(loadedAt) < s.reload {
		return pool, nil
	}

	fresh, err := s.source.FetchPool(ctx)
	if err != nil {
		if pool != nil {
			s.logger.Warn().Err(err).Msg("pool refresh failed, serving previous copy")
			return pool, nil
		}
		return nil, fmt.Errorf("load question pool: %w", err)
	}

	s.mu.Lock()
	s.pool = fresh
	s.loadedAt = time.Now()
	s.mu.Unlock()
	return fresh, nil
}
