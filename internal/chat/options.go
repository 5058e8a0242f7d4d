package chat

import "marathon-chat/internal/metrics"

// Option configures a Handler
type Option interface {
	apply(*Handler)
}

type optionFunc func(h *Handler)

func (f optionFunc) apply(h *Handler) { f(h) }

// WithDSNSource replaces the lookup of the connection string done on every request
func WithDSNSource(f func() string) Option {
	return optionFunc(func(h *Handler) {
		h.dsn = f
	})
}

// WithGatewayFactory replaces the storage.Store based persistence
func WithGatewayFactory(f GatewayFactory) Option {
	return optionFunc(func(h *Handler) {
		h.open = f
	})
}

// WithModerator replaces the built-in profanity filter
func WithModerator(m Moderator) Option {
	return optionFunc(func(h *Handler) {
		h.moderator = m
	})
}

// WithColorChooser replaces the random avatar color selection
func WithColorChooser(c ColorChooser) Option {
	return optionFunc(func(h *Handler) {
		h.colors = c
	})
}

// WithRejectionMessage sets the error text of moderated messages, blank keeps the default
func WithRejectionMessage(msg string) Option {
	return optionFunc(func(h *Handler) {
		if msg != "" {
			h.rejection = msg
		}
	})
}

// WithMetrics enables counting of responses and messages
func WithMetrics(c *metrics.Collector) Option {
	return optionFunc(func(h *Handler) {
		h.metrics = c
	})
}
