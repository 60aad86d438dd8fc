package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from the environment. Zero values mean unset.
type EnvConfig struct {
	Catalog      string        `env:"TUIDINER_CATALOG"`
	DBPath       string        `env:"TUIDINER_DB"`
	AdvanceDelay time.Duration `env:"TUIDINER_ADVANCE_DELAY"`
	LogLevel     string        `env:"TUIDINER_LOG_LEVEL"`
}

// ParseEnv loads overrides from environment variables.
func ParseEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
