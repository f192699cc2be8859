package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=3000"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionSecret signs session tokens; SessionTTL bounds both the token
	// expiry and the server-side session record.
	SessionSecret string        `env:"SESSION_SECRET, default=dev_session_secret_32_chars_minimum"`
	SessionTTL    time.Duration `env:"SESSION_TTL,    default=24h"`

	// AuthFacade selects the active login facade: "json" or "basic".
	// Only one facade is mounted per deployment.
	AuthFacade string `env:"AUTH_FACADE, default=json"`

	// TrustedOrigins are the Origins the identity provider accepts on
	// mutating calls.
	TrustedOrigins []string `env:"TRUSTED_ORIGINS, default=http://localhost:4200"`

	// ProviderBaseURL is where the credential resolver reaches the identity
	// provider's HTTP facade; by default the server's own address.
	ProviderBaseURL string `env:"PROVIDER_BASE_URL, default=http://localhost:3000"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=account_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Production reports whether the service runs with production hardening
// (secure cookies, no seed accounts).
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
