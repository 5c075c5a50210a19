package config

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration. Credentials are required at startup;
// a missing variable fails env.Parse and aborts the fx app.
type Config struct {
	Version     string `env:"VERSION" envDefault:"0.1.0"`
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string `env:"SENTRY_DSN"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// CookieKey is the hex-encoded AES-256 key for the session cookie.
	CookieKey string `env:"COOKIE_KEY,required,notEmpty"`

	YelpAPIKey     string `env:"FOOD_SELECTOR_API,required,notEmpty"`
	ZipcodeAPIKey  string `env:"ZIPCODE_API_KEY,required,notEmpty"`
	YelpBaseURL    string `env:"YELP_BASE_URL" envDefault:"https://api.yelp.com/v3"`
	ZipcodeBaseURL string `env:"ZIPCODE_BASE_URL" envDefault:"https://www.zipcodeapi.com/rest"`

	// RedisAddr selects the Redis session store when set; empty keeps
	// sessions in process memory.
	RedisAddr  string        `env:"REDIS_ADDR"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	TemplateDir     string        `env:"TEMPLATE_DIR" envDefault:"templates"`

	secretKey []byte
}

func NewConfig() (*Config, error) {
	// Best-effort: real env vars win over .env, absence of the file is fine.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	key, err := hex.DecodeString(cfg.CookieKey)
	if err != nil {
		return nil, fmt.Errorf("COOKIE_KEY is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("COOKIE_KEY must decode to 32 bytes, got %d", len(key))
	}
	cfg.secretKey = key

	return cfg, nil
}

// SecretKey returns the decoded AES key for the session cookie.
func (c *Config) SecretKey() []byte {
	return c.secretKey
}

func (c *Config) IsEnvProd() bool {
	if c.Environment == "prod" && c.SentryDSN != "" {
		return true
	}
	return false
}
