// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the API process configuration. An empty DatabaseURL runs
// the service on in-memory storage, which is intended for development and
// demos only.
type Config struct {
	Addr         string        `env:"LIBRALEND_ADDR" envDefault:":8080"`
	DatabaseURL  string        `env:"LIBRALEND_DATABASE_URL"`
	JWTSecret    string        `env:"LIBRALEND_JWT_SECRET" envDefault:"dev_secret_change_in_prod"`
	TokenTTL     time.Duration `env:"LIBRALEND_TOKEN_TTL" envDefault:"12h"`
	OTelEndpoint string        `env:"LIBRALEND_OTEL_ENDPOINT"`
	SeedDemoData bool          `env:"LIBRALEND_SEED_DEMO" envDefault:"false"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
