// Package metrics provides Prometheus instrumentation for socrata-engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for tool invocations and remote API calls.
// All collectors are registered on a private registry so tests can create
// independent instances without duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	// ToolInvocations counts tool calls by tool name.
	ToolInvocations *prometheus.CounterVec

	// ToolErrors counts failed tool calls by tool name and error code.
	ToolErrors *prometheus.CounterVec

	// RemoteCallDuration observes Socrata API call latency by HTTP method.
	RemoteCallDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ToolInvocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "socrata_engine_tool_invocations_total",
			Help: "Total number of MCP tool invocations.",
		}, []string{"tool"}),
		ToolErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "socrata_engine_tool_errors_total",
			Help: "Total number of failed MCP tool invocations.",
		}, []string{"tool", "code"}),
		RemoteCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "socrata_engine_remote_call_duration_seconds",
			Help:    "Duration of Socrata API calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
