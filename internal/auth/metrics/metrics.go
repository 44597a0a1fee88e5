// Package metrics holds the Prometheus collectors for auth operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for registration and login.
type Metrics struct {
	RegistrationsTotal   prometheus.Counter
	RegistrationFailures *prometheus.CounterVec
	LoginsTotal          prometheus.Counter
	LoginDenials         *prometheus.CounterVec
	IssuanceDurationMs   prometheus.Histogram
	LoginDurationMs      prometheus.Histogram
}

// New registers and returns auth metrics collectors.
func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zkauth_registrations_total",
			Help: "Total number of successful registrations",
		}),
		RegistrationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zkauth_registration_failures_total",
			Help: "Total number of failed registrations by error code",
		}, []string{"code"}),
		LoginsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zkauth_logins_total",
			Help: "Total number of successful logins",
		}),
		LoginDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zkauth_login_denials_total",
			Help: "Total number of denied logins by verification stage",
		}, []string{"stage"}),
		IssuanceDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zkauth_issuance_duration_ms",
			Help:    "Duration of the credential issuance pipeline in milliseconds",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}),
		LoginDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zkauth_login_duration_ms",
			Help:    "Duration of login handling in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}),
	}
}

func (m *Metrics) IncrementRegistrations() {
	m.RegistrationsTotal.Inc()
}

func (m *Metrics) IncrementRegistrationFailures(code string) {
	m.RegistrationFailures.WithLabelValues(code).Inc()
}

func (m *Metrics) IncrementLogins() {
	m.LoginsTotal.Inc()
}

func (m *Metrics) IncrementLoginDenials(stage string) {
	m.LoginDenials.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObserveIssuanceDuration(durationMs float64) {
	m.IssuanceDurationMs.Observe(durationMs)
}

func (m *Metrics) ObserveLoginDuration(durationMs float64) {
	m.LoginDurationMs.Observe(durationMs)
}
