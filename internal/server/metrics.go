package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Metrics holds the process endpoint collectors
type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the process endpoint collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rptconv_process_requests_total",
			Help: "Process requests by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rptconv_process_duration_seconds",
			Help:    "Time spent handling process requests.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observe(outcome string, start time.Time) {
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(start).Seconds())
}
