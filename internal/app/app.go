package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hiteshrepo/voice-trivia/internal/config"
	"github.com/hiteshrepo/voice-trivia/internal/history"
	"github.com/hiteshrepo/voice-trivia/internal/logging"
	"github.com/hiteshrepo/voice-trivia/internal/matcher"
	"github.com/hiteshrepo/voice-trivia/internal/prompt"
	"github.com/hiteshrepo/voice-trivia/internal/question"
	"github.com/hiteshrepo/voice-trivia/internal/server"
	"github.com/hiteshrepo/voice-trivia/internal/session"
	"github.com/hiteshrepo/voice-trivia/internal/synonym"
	"github.com/hiteshrepo/voice-trivia/internal/webhook"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, Postgres, Redis and the turn pipeline.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	questionRepo := question.NewRepository(pool)
	questionSvc := question.NewService(questionRepo, cfg.Game.PoolReloadInterval, logger)

	var expander matcher.Expander
	if cfg.Synonyms.ServiceURL != "" {
		client := synonym.NewClient(
			cfg.Synonyms.ServiceURL,
			cfg.Synonyms.APIKey,
			&http.Client{Timeout: cfg.Synonyms.HTTPTimeout},
		)
		expander = synonym.NewCachedGenerator(client, redisClient, cfg.Synonyms.CacheTTL, logger)
		logger.Info().Str("url", cfg.Synonyms.ServiceURL).Msg("synonym service configured")
	} else {
		logger.Warn().Msg("synonym service not configured; entity-expansion matching disabled")
	}

	rng := question.NewLockedRand(time.Now().UnixNano())
	answerMatcher := matcher.New(expander, logger)
	historyStore := history.NewRedisStore(redisClient, logger)
	prompts := prompt.NewProvider(rand.New(rand.NewSource(time.Now().UnixNano())))

	engine := session.NewEngine(
		questionSvc,
		answerMatcher,
		historyStore,
		prompts,
		rng,
		cfg.Game.RoundLength,
		logger,
	)

	sessionStore := session.NewRedisStore(redisClient, cfg.Game.SessionTTL, logger)

	if cfg.Security.PlatformJWTSecret == "" {
		logger.Warn().Msg("PLATFORM_JWT_SECRET not set; webhook accepts unsigned requests")
	}
	turnHandler := webhook.NewHandler(engine, sessionStore, []byte(cfg.Security.PlatformJWTSecret), logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, turnHandler.HandleTurn)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
