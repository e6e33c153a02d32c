package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source metrics track reader behaviour per source kind
var (
	// ItemsFetchedTotal counts items returned by readers
	ItemsFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brief_items_fetched_total",
			Help: "Total number of items returned by source readers",
		},
		[]string{"kind"},
	)

	// SourceFetchErrors counts failed source reads
	SourceFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brief_source_fetch_errors_total",
			Help: "Total number of failed source reads",
		},
		[]string{"kind"},
	)

	// SourceFetchDuration measures successful source reads
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brief_source_fetch_duration_seconds",
			Help:    "Source read duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"kind"},
	)
)

// Selection metrics track what the filters and the deduplicator drop
var (
	// ItemsDroppedTotal counts items removed before ranking, by stage
	ItemsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brief_items_dropped_total",
			Help: "Total number of items dropped before ranking by stage (window, keyword, duplicate)",
		},
		[]string{"stage"},
	)

	// DigestItems is the size of the last assembled digest
	DigestItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brief_digest_items",
			Help: "Number of items in the last assembled digest",
		},
	)
)

// Enrichment metrics
var (
	// EnrichmentsTotal counts enrichment outcomes
	EnrichmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brief_enrichments_total",
			Help: "Total number of item enrichments by status (success, failure, disabled)",
		},
		[]string{"status"},
	)

	// EnrichmentDuration measures summarizer calls
	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brief_enrichment_duration_seconds",
			Help:    "Time taken by the summarizer for one item",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9),
		},
	)

	// ContentFetchAttemptsTotal counts readable-content fetches by result
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brief_content_fetch_attempts_total",
			Help: "Total number of article content fetch attempts by result (success, failure, skipped)",
		},
		[]string{"result"},
	)

	// ContentFetchDuration measures content fetches
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brief_content_fetch_duration_seconds",
			Help:    "Article content fetch duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// ContentFetchSize measures fetched content size
	ContentFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brief_content_fetch_size_bytes",
			Help:    "Size of fetched article content in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 10),
		},
	)
)

// Delivery and run metrics
var (
	// SendsTotal counts delivery attempts by mode and status
	SendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brief_sends_total",
			Help: "Total number of digest deliveries by mode and status (sent, failed, skipped)",
		},
		[]string{"mode", "status"},
	)

	// PipelineRunsTotal counts runs by outcome
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brief_pipeline_runs_total",
			Help: "Total number of pipeline runs by outcome (sent, not_sent, skipped, failed)",
		},
		[]string{"outcome"},
	)
)
