package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "casklist",
		Subsystem: "feed",
		Name:      "fetch_total",
		Help:      "Category feed fetches by outcome (ok, missing, error).",
	}, []string{"category", "outcome"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "casklist",
		Subsystem: "feed",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of individual feed HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	})
)
