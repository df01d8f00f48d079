package config

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"docquiz"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	Host                    string        `env:"HOST" envDefault:"0.0.0.0"`
	Port                    int           `env:"PORT" envDefault:"5000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	ReadHeaderTimeout       time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes            int64         `env:"MAX_BODY_BYTES" envDefault:"33554432"`
	StaticDir               string        `env:"STATIC_DIR" envDefault:"public"`

	AI    AI
	Quiz  Quiz
	Redis Redis
	CORS  CORS
}

// AI configures the Gemini client.
type AI struct {
	GeminiAPIKey string        `env:"GEMINI_API_KEY,notEmpty"`
	Model        string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash-lite"`
	Timeout      time.Duration `env:"AI_TIMEOUT" envDefault:"60s"`
	// Negative means "leave the model default".
	Temperature float32 `env:"AI_TEMPERATURE" envDefault:"-1"`
}

// Quiz groups quiz generation knobs.
type Quiz struct {
	StrictValidation bool          `env:"QUIZ_STRICT_VALIDATION" envDefault:"false"`
	MaxContentChars  int           `env:"QUIZ_MAX_CONTENT_CHARS" envDefault:"3000"`
	CacheTTL         time.Duration `env:"QUIZ_CACHE_TTL" envDefault:"10m"`
}

// Redis backs the optional quiz response cache. Empty Addr disables it.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	MaxAge         int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	return parse(env.Options{RequiredIfNoDef: true})
}

func parse(opts env.Options) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("parse config: PORT out of range: %d", cfg.Port)
	}
	if cfg.Quiz.MaxContentChars <= 0 {
		return nil, fmt.Errorf("parse config: QUIZ_MAX_CONTENT_CHARS must be positive")
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (a *App) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// CacheEnabled reports whether the quiz response cache should be wired.
func (a *App) CacheEnabled() bool {
	return a.Redis.Addr != ""
}
