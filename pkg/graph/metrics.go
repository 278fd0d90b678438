package graph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "actorlink_search_total",
		Help: "Total path searches by result",
	}, []string{"result"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "actorlink_search_duration_seconds",
		Help:    "Path search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	})

	searchLevels = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "actorlink_search_levels",
		Help:    "Number of BFS levels expanded per search, both directions combined",
		Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12, 16},
	})

	storeQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "actorlink_store_queries_total",
		Help: "Relation store lookups issued by the adjacency accessor",
	}, []string{"query"})
)
