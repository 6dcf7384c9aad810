// Package metrics holds the Prometheus collectors exported at /metrics.
//
// Catalog metrics:
//   - catalog_requests_total{endpoint, outcome}
//   - catalog_retries_total{reason} (rate_limited, server_error)
//
// Cache metrics:
//   - artist_cache_hits_total / artist_cache_misses_total
//   - artist_cache_batch_failures_total
//
// Discovery metrics:
//   - discovery_runs_total{strategy, outcome}
//   - discovery_duration_seconds{strategy}
//   - discovery_candidates{strategy}
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Catalog API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	CatalogRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_retries_total",
			Help: "Catalog API retries by reason",
		},
		[]string{"reason"},
	)

	ArtistCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artist_cache_hits_total",
			Help: "Artist lookups served from the TTL cache",
		},
	)

	ArtistCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artist_cache_misses_total",
			Help: "Artist lookups that required a catalog fetch",
		},
	)

	ArtistBatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artist_cache_batch_failures_total",
			Help: "Artist batch fetches that failed and were skipped",
		},
	)

	DiscoveryRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_runs_total",
			Help: "Discovery strategy invocations by outcome",
		},
		[]string{"strategy", "outcome"},
	)

	DiscoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_duration_seconds",
			Help:    "Wall time of a discovery strategy invocation",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"strategy"},
	)

	DiscoveryCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_candidates",
			Help:    "Number of ranked candidates returned per invocation",
			Buckets: []float64{0, 1, 5, 10, 15, 20, 25, 30, 40, 50},
		},
		[]string{"strategy"},
	)
)

// RecordCatalogRequest counts one finished catalog request.
func RecordCatalogRequest(endpoint, outcome string) {
	CatalogRequests.WithLabelValues(endpoint, outcome).Inc()
}

// RecordRetry counts one retry attempt.
func RecordRetry(reason string) {
	CatalogRetries.WithLabelValues(reason).Inc()
}

// RecordDiscovery records a completed strategy invocation.
func RecordDiscovery(strategy, outcome string, seconds float64, candidates int) {
	DiscoveryRuns.WithLabelValues(strategy, outcome).Inc()
	DiscoveryDuration.WithLabelValues(strategy).Observe(seconds)
	DiscoveryCandidates.WithLabelValues(strategy).Observe(float64(candidates))
}
