package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for issuer node calls.
type Metrics struct {
	CallDuration *prometheus.HistogramVec
	CallFailures *prometheus.CounterVec
}

// New registers and returns issuer client metrics collectors.
func New() *Metrics {
	return &Metrics{
		CallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zkauth_issuer_call_duration_seconds",
			Help:    "Duration of issuer node calls by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		CallFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zkauth_issuer_call_failures_total",
			Help: "Issuer node call failures by operation and classified kind",
		}, []string{"op", "kind"}),
	}
}
