package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the API. Both signing secrets are
// required: without them no token can be signed or verified, so the process
// must not start.
type Config struct {
	DbUrl            string        `env:"DB_URL,required"`
	Port             string        `env:"PORT" envDefault:"8080"`
	JwtSecret        string        `env:"JWT_SECRET,required"`
	JwtRefreshSecret string        `env:"JWT_REFRESH_SECRET,required"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
