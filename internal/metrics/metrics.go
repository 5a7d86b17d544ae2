package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OracleQueries counts existence queries sent to the knowledge graph, by backend and outcome
	// (true, false, error).
	OracleQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rellink_oracle_queries_total",
			Help: "Existence queries issued to the knowledge-graph oracle",
		},
		[]string{"backend", "result"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rellink_cache_lookups_total",
			Help: "Query cache lookups by cache name and hit/miss",
		},
		[]string{"cache", "result"},
	)

	CacheFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rellink_cache_flushes_total",
			Help: "Full rewrites of a persisted query cache",
		},
		[]string{"cache"},
	)

	GraphsAttempted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rellink_validation_graphs_attempted_total",
		Help: "Candidate graphs visited by the multi-hop validator",
	})

	GraphsValidated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rellink_validation_graphs_validated_total",
		Help: "Candidate graphs confirmed by the oracle",
	})

	TriplesLinked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rellink_triples_linked_total",
		Help: "Flat triples that went through direction resolution",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rellink_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path", "status"},
	)
)
