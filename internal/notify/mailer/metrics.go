package mailer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notify",
			Subsystem: "mailer",
			Name:      "send_total",
			Help:      "Total email send attempts by provider and status.",
		},
		[]string{"provider", "status"},
	)
	sendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notify",
			Subsystem: "mailer",
			Name:      "send_duration_seconds",
			Help:      "Duration of provider send calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "status"},
	)
)

func observe(provider string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	sendTotal.WithLabelValues(provider, status).Inc()
	sendDuration.WithLabelValues(provider, status).Observe(time.Since(start).Seconds())
}
