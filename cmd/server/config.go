package main

import (
	"fmt"
	"time"

	"marathon-chat/internal/storage"

	"github.com/jackc/pgx/v4"
)

// appConfig defines application wide fields parsed from environment variables
type appConfig struct {
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	DBLogLevel        string        `env:"DB_LOG_LEVEL" envDefault:"warn"`
	Pool              bool          `env:"DB_POOL" envDefault:"false"`
	PoolMaxConns      int32         `env:"DB_POOL_MAX_CONNS" envDefault:"10"`
	ConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"30s"`
	AutoMigrate       bool          `env:"AUTO_MIGRATE" envDefault:"false"`
	ModerationMessage string        `env:"MODERATION_MESSAGE"`
	ColorSeed         int64         `env:"COLOR_SEED"`
}

// storeOptions builds connection options shared by every dialer
func (c appConfig) storeOptions() ([]storage.Option, error) {
	level, err := pgx.LogLevelFromString(c.DBLogLevel)
	if err != nil {
		return nil, fmt.Errorf("DB_LOG_LEVEL: %w", err)
	}

	return []storage.Option{
		storage.ConnectionTimeout(c.ConnectTimeout),
		storage.LogLevel(level),
	}, nil
}
