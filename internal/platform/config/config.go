package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// DefaultSessionSecret solo sirve para desarrollo local.
const DefaultSessionSecret = "dev-only-change-me"

type Config struct {
	Port    string `env:"PORT,default=8080"`
	AppName string `env:"APP_NAME,default=dog-walk-service"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	// DevAuth habilita X-Debug-User-ID / X-Debug-User-Role (solo dev).
	DevAuth bool `env:"DEV_AUTH,default=false"`

	DB       DB
	Session  Session
	Walks    Walks
	DogImage DogImage
	Limits   RateLimit
}

type DB struct {
	// Vacío => adapters in-memory.
	DSN          string        `env:"DB_DSN"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS,default=10"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS,default=5"`
	PingTimeout  time.Duration `env:"DB_PING_TIMEOUT,default=3s"`
	AutoMigrate  bool          `env:"DB_AUTO_MIGRATE,default=true"`
}

type Session struct {
	Secret       string        `env:"SESSION_SECRET,default=dev-only-change-me"`
	TTL          time.Duration `env:"SESSION_TTL,default=24h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME,default=dogwalk_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE,default=false"`
}

type Walks struct {
	RatePerWalk int `env:"WALK_RATE_PER_WALK,default=300"`
}

type DogImage struct {
	URL     string        `env:"DOG_IMAGE_API_URL,default=https://dog.ceo/api/breeds/image/random"`
	Timeout time.Duration `env:"DOG_IMAGE_TIMEOUT,default=3s"`
}

type RateLimit struct {
	// RPS <= 0 desactiva el rate limit.
	RPS   float64 `env:"RATE_LIMIT_RPS,default=20"`
	Burst int     `env:"RATE_LIMIT_BURST,default=40"`
}

// Load lee .env (si existe) y luego el entorno.
func Load() (Config, error) {
	// .env es opcional: en prod las variables vienen del orquestador.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT is required")
	}
	if c.DB.MaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if c.DB.MaxIdleConns < 0 || c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return errors.New("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS")
	}
	if c.DB.PingTimeout <= 0 {
		return errors.New("DB_PING_TIMEOUT must be positive")
	}
	if strings.TrimSpace(c.Session.Secret) == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		return errors.New("SESSION_COOKIE_NAME is required")
	}
	if c.Walks.RatePerWalk < 0 {
		return errors.New("WALK_RATE_PER_WALK must be >= 0")
	}
	if c.DogImage.Timeout <= 0 {
		return errors.New("DOG_IMAGE_TIMEOUT must be positive")
	}
	if c.Limits.RPS > 0 && c.Limits.Burst < 1 {
		return errors.New("RATE_LIMIT_BURST must be >= 1 when RATE_LIMIT_RPS > 0")
	}
	return nil
}

// InsecureSession indica si se está usando el secreto de desarrollo.
func (c Config) InsecureSession() bool {
	return c.Session.Secret == DefaultSessionSecret
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}
