package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tckz/visitor-counter/internal/counter"
)

type Metrics struct {
	increments *prometheus.CounterVec
	duration   prometheus.Histogram
}

// NewMetrics registers the increment metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		increments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visitor_counter",
			Name:      "increments_total",
			Help:      "Increment attempts by result and error kind.",
		}, []string{"result", "kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "visitor_counter",
			Name:      "increment_duration_seconds",
			Help:      "Time spent in the store's atomic increment.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.increments, m.duration)
	return m
}

func (m *Metrics) observe(err error, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
	if err != nil {
		m.increments.WithLabelValues("error", counter.KindOf(err).String()).Inc()
		return
	}
	m.increments.WithLabelValues("ok", "").Inc()
}
