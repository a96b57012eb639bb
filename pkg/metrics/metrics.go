// Package metrics exposes the Prometheus collectors used by the bot.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RepliesTotal        *prometheus.CounterVec
	CacheLoadsTotal     *prometheus.CounterVec
	DialogTurnsTotal    *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RepliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_replies_total",
				Help: "Replies produced, by route",
			},
			[]string{"route"},
		),
		CacheLoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_faq_cache_loads_total",
				Help: "FAQ cache population attempts, by result",
			},
			[]string{"result"},
		),
		DialogTurnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_dialog_turns_total",
				Help: "Order dialog turns, by intent and dialog action",
			},
			[]string{"intent", "action"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_http_requests_total",
				Help: "HTTP requests served",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shopbot_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// ObserveReply counts one reply for the route.
func (m *Metrics) ObserveReply(route string) {
	if m == nil {
		return
	}
	m.RepliesTotal.WithLabelValues(route).Inc()
}

// ObserveCacheLoad counts one cache population attempt.
func (m *Metrics) ObserveCacheLoad(result string) {
	if m == nil {
		return
	}
	m.CacheLoadsTotal.WithLabelValues(result).Inc()
}

// ObserveDialogTurn counts one Lex code hook invocation.
func (m *Metrics) ObserveDialogTurn(intent, action string) {
	if m == nil {
		return
	}
	m.DialogTurnsTotal.WithLabelValues(intent, action).Inc()
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
