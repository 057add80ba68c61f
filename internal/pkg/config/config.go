package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

type Config struct {
	Port     string `env:"PORT,      default=8000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// GuestToken is the well-known credential that resolves to the guest role
	// without touching the identity provider.
	GuestToken string `env:"GUEST_TOKEN, default=guest"`

	// AccessMatchMode selects how rule paths match request paths: "regex" or
	// "prefix". AccessPolicy selects the scan strategy: "any" or "first".
	AccessMatchMode string `env:"ACCESS_MATCH_MODE, default=regex"`
	AccessPolicy    string `env:"ACCESS_POLICY,     default=any"`

	ImageDir string `env:"IMAGE_DIR, default=images"`

	Mongo MongoConfig
	Redis RedisConfig
	Auth0 Auth0Config
	SMTP  SMTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=smart-city"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type Auth0Config struct {
	Domain       string `env:"AUTH0_DOMAIN, default=smart-city-lviv.eu.auth0.com"`
	ClientID     string `env:"AUTH0_CLIENT_ID"`
	ClientSecret string `env:"AUTH0_CLIENT_SECRET"`
	// VerifyTimeoutSeconds bounds a single identity-provider call.
	VerifyTimeoutSeconds int `env:"AUTH0_VERIFY_TIMEOUT, default=10"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=smart.city.lviv@gmail.com"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// MatchMode returns the configured path-matching mode, defaulting to regex
// on an unrecognised value.
func (c *Config) MatchMode() domain.MatchMode {
	if domain.MatchMode(c.AccessMatchMode) == domain.MatchPrefix {
		return domain.MatchPrefix
	}
	return domain.MatchRegex
}

// MatchPolicy returns the configured scan policy, defaulting to any-match.
func (c *Config) MatchPolicy() domain.MatchPolicy {
	if domain.MatchPolicy(c.AccessPolicy) == domain.PolicyFirst {
		return domain.PolicyFirst
	}
	return domain.PolicyAny
}

// IsProduction reports whether the service runs in production mode; error
// responses omit internal detail when it does.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
