package service

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notify",
			Subsystem: "dispatch",
			Name:      "events_total",
			Help:      "Dispatched events by kind and terminal state.",
		},
		[]string{"kind", "state"},
	)
	emailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notify",
			Subsystem: "dispatch",
			Name:      "emails_total",
			Help:      "Notification emails by kind and status (sent, failed, filtered).",
		},
		[]string{"kind", "status"},
	)
)

func observeResult(res Result) {
	dispatchTotal.WithLabelValues(string(res.Kind), strings.ToLower(string(res.State))).Inc()
	if res.Sent > 0 {
		emailsTotal.WithLabelValues(string(res.Kind), "sent").Add(float64(res.Sent))
	}
	if res.Failed > 0 {
		emailsTotal.WithLabelValues(string(res.Kind), "failed").Add(float64(res.Failed))
	}
	if res.Skipped > 0 {
		emailsTotal.WithLabelValues(string(res.Kind), "filtered").Add(float64(res.Skipped))
	}
}
