// Package metrics declares the Prometheus collectors exposed on the
// verifier's /metrics endpoint, following the promhttp.Handler() wiring in
// DanDo385-go-edu/minis/50-mini-service-all-features/cmd/service/main.go.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the collectors the RPC layer records against.
type Metrics struct {
	RPCRequestsTotal   *prometheus.CounterVec
	RPCRequestDuration *prometheus.HistogramVec
	AttemptsInFlight   prometheus.Gauge
}

// New registers and returns a fresh Metrics bundle against the default
// registry.
func New() *Metrics {
	m := &Metrics{
		RPCRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zkp_rpc_requests_total",
				Help: "Total number of Chaum-Pedersen RPC calls by method and outcome code.",
			},
			[]string{"method", "code"},
		),
		RPCRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zkp_rpc_request_duration_seconds",
				Help:    "Chaum-Pedersen RPC call latency by method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		AttemptsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "zkp_attempts_in_flight",
				Help: "Number of authentication attempts that have an outstanding AttemptState (challenged, not yet verified).",
			},
		),
	}

	prometheus.MustRegister(m.RPCRequestsTotal, m.RPCRequestDuration, m.AttemptsInFlight)
	return m
}

// AttemptStarted and AttemptFinished satisfy internal/verifier.
// AttemptObserver, letting the verifier report AttemptState occupancy
// without importing this package itself.
func (m *Metrics) AttemptStarted() {
	m.AttemptsInFlight.Inc()
}

func (m *Metrics) AttemptFinished() {
	m.AttemptsInFlight.Dec()
}
