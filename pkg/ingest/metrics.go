package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestMovies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "actorlink_ingest_movies_total",
		Help: "Catalog IDs processed by ingestion, by outcome",
	}, []string{"outcome"})

	ingestBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actorlink_ingest_batches_total",
		Help: "Batches written to the relation store",
	})
)
