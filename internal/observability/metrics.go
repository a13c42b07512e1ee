// Package observability exposes the Prometheus metrics recorded by the services.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics holds the counters for the registration workflow and the expiration sweep.
// A nil *Metrics records nothing.
type Metrics struct {
	Registrations     *prometheus.CounterVec
	Withdrawals       *prometheus.CounterVec
	ExpirationSweeps  *prometheus.CounterVec
	ActivitiesExpired prometheus.Counter
	SweepDuration     prometheus.Histogram
}

// NewMetrics registers the metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sporthive",
			Subsystem: "registration",
			Name:      "attempts_total",
			Help:      "Registration attempts, labeled by result.",
		}, []string{"result"}),
		Withdrawals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sporthive",
			Subsystem: "registration",
			Name:      "withdrawals_total",
			Help:      "Withdrawal attempts, labeled by result.",
		}, []string{"result"}),
		ExpirationSweeps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sporthive",
			Subsystem: "expiration",
			Name:      "sweeps_total",
			Help:      "Expiration sweeps, labeled by result.",
		}, []string{"result"}),
		ActivitiesExpired: f.NewCounter(prometheus.CounterOpts{
			Namespace: "sporthive",
			Subsystem: "expiration",
			Name:      "activities_finished_total",
			Help:      "Activities moved to Finished by the expiration sweep.",
		}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sporthive",
			Subsystem: "expiration",
			Name:      "sweep_duration_seconds",
			Help:      "Time spent running one expiration sweep.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
	}
}

func (m *Metrics) ObserveRegistration(result string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveWithdrawal(result string) {
	if m == nil {
		return
	}
	m.Withdrawals.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSweep(result string, finished int64, seconds float64) {
	if m == nil {
		return
	}
	m.ExpirationSweeps.WithLabelValues(result).Inc()
	m.ActivitiesExpired.Add(float64(finished))
	m.SweepDuration.Observe(seconds)
}
