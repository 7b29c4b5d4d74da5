package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contentWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_writes_total",
			Help: "Create and delete operations by collection and result",
		},
		[]string{"collection", "op", "result"},
	)

	contentWriteAttempts = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_write_attempts",
			Help:    "Attempts needed per write",
			Buckets: []float64{1, 2, 3, 5, 8},
		},
		[]string{"collection", "op"},
	)

	activeSubscriptions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "content_subscriptions_active",
			Help: "Number of live snapshot subscriptions",
		},
		[]string{"collection"},
	)

	degradedSnapshots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_snapshot_degraded_total",
			Help: "Snapshots delivered empty because the store query failed",
		},
		[]string{"collection"},
	)
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
