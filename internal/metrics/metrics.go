// Package metrics holds the Prometheus collectors of the gateway.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gateway"

type Metrics struct {
	Registry *prometheus.Registry

	TelemetryFrames    *prometheus.CounterVec
	MessagesSent       *prometheus.CounterVec
	MessagesDropped    *prometheus.CounterVec
	PeersPruned        *prometheus.CounterVec
	OracleFailures     *prometheus.CounterVec
	ResponseRepairs    *prometheus.CounterVec
	CommandsDispatched *prometheus.CounterVec
	PairingsCompleted  prometheus.Counter
}

// New builds a private registry so several gateways (or tests) can coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		TelemetryFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_frames_total",
			Help:      "Binary frames received from devices, by channel tag.",
		}, []string{"channel"}),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Messages queued to peers, by peer role.",
		}, []string{"role"}),
		MessagesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_dropped_total",
			Help:      "Messages dropped because a peer queue was full, by peer role.",
		}, []string{"role"}),
		PeersPruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "peers_pruned_total",
			Help:      "Closed peers removed on broadcast, by peer role.",
		}, []string{"role"}),
		OracleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_failures_total",
			Help:      "Language model calls that failed or returned non-conforming output, by stage.",
		}, []string{"stage"}),
		ResponseRepairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_repairs_total",
			Help:      "Outcome of the truncated-response repair path.",
		}, []string{"result"}),
		CommandsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_dispatched_total",
			Help:      "Device commands broadcast to controllers, by token.",
		}, []string{"command"}),
		PairingsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairings_completed_total",
			Help:      "QR pairing sessions completed.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.TelemetryFrames,
		m.MessagesSent,
		m.MessagesDropped,
		m.PeersPruned,
		m.OracleFailures,
		m.ResponseRepairs,
		m.CommandsDispatched,
		m.PairingsCompleted,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
