package storage

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/jackc/pgx/v4"
)

// Option alters the default pgx.ConnConfig used when a Dialer opens a connection
type Option interface {
	apply(*pgx.ConnConfig)
}

type optionFunc func(c *pgx.ConnConfig)

func (f optionFunc) apply(c *pgx.ConnConfig) { f(c) }

// ConnectionTimeout sets timeout for connection to be established
func ConnectionTimeout(d time.Duration) Option {
	return optionFunc(func(c *pgx.ConnConfig) {
		c.ConnectTimeout = d
	})
}

// LogLevel sets the minimal level of pgx messages passed to the logger
func LogLevel(l pgx.LogLevel) Option {
	return optionFunc(func(c *pgx.ConnConfig) {
		c.LogLevel = l
	})
}

// EnvConfig defines database fields parsed from environment variables
type EnvConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

// DSNFromEnv reads the connection string from the environment on every call,
// so a missing DATABASE_URL is observed per request
func DSNFromEnv() string {
	cfg := EnvConfig{}
	if err := env.Parse(&cfg); err != nil {
		return ""
	}
	return cfg.DatabaseURL
}
