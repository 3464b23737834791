package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "redmcp"

// Metrics owns a private registry so tests and multiple servers never collide on
// the global default registerer. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	toolCalls      *prometheus.CounterVec
	toolDuration   *prometheus.HistogramVec
	remoteAttempts *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls answered, by tool and result code.",
		}, []string{"tool", "code"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Time from request decode to response, by tool.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		remoteAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_attempts_total",
			Help:      "HTTP attempts against the remote API, by method and outcome.",
		}, []string{"method", "outcome"}),
	}
	m.registry.MustRegister(m.toolCalls, m.toolDuration, m.remoteAttempts)
	return m
}

// ObserveToolCall records one answered request. code is "ok" on success.
func (m *Metrics) ObserveToolCall(tool, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, code).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// ObserveRemoteAttempt records one HTTP attempt. outcome is a status class such
// as "2xx" or "network".
func (m *Metrics) ObserveRemoteAttempt(method, outcome string) {
	if m == nil {
		return
	}
	m.remoteAttempts.WithLabelValues(method, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StatusClass buckets an HTTP status code into "1xx".."5xx".
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	}
	return "1xx"
}
