// Package metrics exposes Prometheus counters of the chat handler.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	responses *prometheus.CounterVec
	created   prometheus.Counter
	blocked   prometheus.Counter
}

// New creates the counters and registers them with reg
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "responses_total",
			Help:      "Responses by request method and status code.",
		}, []string{"method", "code"}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "messages_created_total",
			Help:      "Messages persisted.",
		}),
		blocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "messages_blocked_total",
			Help:      "Messages rejected by moderation.",
		}),
	}

	reg.MustRegister(c.responses, c.created, c.blocked)

	return c
}

// ObserveResponse counts a response; unknown methods share one label value
func (c *Collector) ObserveResponse(method string, code int) {
	if c == nil {
		return
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodOptions:
	default:
		method = "OTHER"
	}
	c.responses.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

func (c *Collector) MessageCreated() {
	if c == nil {
		return
	}
	c.created.Inc()
}

func (c *Collector) MessageBlocked() {
	if c == nil {
		return
	}
	c.blocked.Inc()
}
