package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"voice-trivia"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Security Security
	Game     Game
	Synonyms Synonyms
}

// Postgres captures connection info for the question pool database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds session, history and synonym-cache store configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores the secret used to verify platform-signed turn requests.
// An empty secret disables verification (local development only).
type Security struct {
	PlatformJWTSecret string `env:"PLATFORM_JWT_SECRET"`
}

// Game groups gameplay defaults.
type Game struct {
	RoundLength        int           `env:"ROUND_LENGTH" envDefault:"5"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	PoolReloadInterval time.Duration `env:"POOL_RELOAD_INTERVAL" envDefault:"5m"`
}

// Synonyms configures the external synonym-generation service.
type Synonyms struct {
	ServiceURL  string        `env:"SYNONYM_SERVICE_URL"`
	APIKey      string        `env:"SYNONYM_SERVICE_API_KEY"`
	HTTPTimeout time.Duration `env:"SYNONYM_HTTP_TIMEOUT" envDefault:"3s"`
	CacheTTL    time.Duration `env:"SYNONYM_CACHE_TTL" envDefault:"24h"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
