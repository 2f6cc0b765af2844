package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "love_client",
			Name:      "pages_fetched_total",
			Help:      "Timeline pages fetched while following the cursor chain.",
		},
	)

	fetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "love_client",
			Name:      "fetch_failures_total",
			Help:      "Calls that failed after exhausting their retry budget.",
		},
		[]string{"operation"},
	)

	hydrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "love_client",
			Name:      "hydrations_total",
			Help:      "Summary records upgraded to full moments, by result.",
		},
		[]string{"result"},
	)

	cacheReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "love_client",
			Name:      "cache_reads_total",
			Help:      "Timeline cache lookups, by freshness of the snapshot.",
		},
		[]string{"freshness"},
	)
)
