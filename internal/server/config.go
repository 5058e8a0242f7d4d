package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Option interface {
	apply(*config)
}

type optionFunc func(c *config)

func (f optionFunc) apply(c *config) { f(c) }

// config defines fields used for configuring Server instance
type config struct {
	httpServer    *http.Server
	handlers      map[string]http.Handler
	afterShutdown []func()
}

// EnvConfig defines fields used for parsing from environment variables
type EnvConfig struct {
	Host        string        `env:"HOST" envDefault:"0.0.0.0"`
	Port        uint16        `env:"PORT" envDefault:"9000"`
	ReadTimeout time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
}

// WithEnvConfig enables processing exported EnvConfig struct to acts as a source of config parameters for http.Server
func WithEnvConfig(cfg EnvConfig) Option {
	return optionFunc(func(c *config) {
		c.httpServer.Addr = cfg.Host + ":" + strconv.FormatUint(uint64(cfg.Port), 10)
		c.httpServer.ReadTimeout = cfg.ReadTimeout
	})
}

// Handle registers h for every method on pattern
func Handle(pattern string, h http.Handler) Option {
	return optionFunc(func(c *config) {
		c.handlers[pattern] = h
	})
}

// RegisterAfterShutdown registers a function to call after http.Server shutdown
// f will not be called in separated goroutine
func RegisterAfterShutdown(f func()) Option {
	return optionFunc(func(c *config) {
		c.afterShutdown = append(c.afterShutdown, f)
	})
}

// applyLog wraps each http.Handler in handlers map with log middleware
func applyLog(logger *zap.Logger) Option {
	return optionFunc(func(c *config) {
		for pattern, h := range c.handlers {
			c.handlers[pattern] = log(h, logger)
		}
	})
}

// registerHandlers mounts every handler of the handlers map on a new chi router
// that router is used as a http.Handler for http.Server in config struct
func registerHandlers() Option {
	return optionFunc(func(c *config) {
		r := chi.NewRouter()
		for pattern, h := range c.handlers {
			r.Handle(pattern, h)
		}
		c.httpServer.Handler = r
	})
}
