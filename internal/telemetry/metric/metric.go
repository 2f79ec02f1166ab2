// Package metric provides Prometheus metrics for redstub.
//
// It exposes command throughput, error and latency metrics plus
// connection gauges for the RESP server.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// CommandsTotal counts executed commands by opcode.
	CommandsTotal *prometheus.CounterVec

	// CommandErrors counts commands that produced an error reply.
	CommandErrors *prometheus.CounterVec

	// CommandDuration observes command latency by opcode.
	CommandDuration *prometheus.HistogramVec

	// ConnectionsOpen tracks currently open client connections.
	ConnectionsOpen prometheus.Gauge

	// ConnectionsTotal counts accepted client connections.
	ConnectionsTotal prometheus.Counter
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redstub",
			Name:      "commands_total",
			Help:      "Commands executed, by opcode.",
		}, []string{"command"}),
		CommandErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redstub",
			Name:      "command_errors_total",
			Help:      "Commands that produced an error reply, by opcode.",
		}, []string{"command"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "redstub",
			Name:      "command_duration_seconds",
			Help:      "Command execution latency, by opcode.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"command"}),
		ConnectionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "redstub",
			Name:      "connections_open",
			Help:      "Currently open client connections.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "redstub",
			Name:      "connections_total",
			Help:      "Accepted client connections.",
		}),
	}
	reg.MustRegister(
		r.CommandsTotal,
		r.CommandErrors,
		r.CommandDuration,
		r.ConnectionsOpen,
		r.ConnectionsTotal,
	)
	return r
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
