package metrics

import (
	"time"
)

// RecordSourceFetch records a successful source read.
func RecordSourceFetch(kind string, duration time.Duration, items int) {
	SourceFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
	ItemsFetchedTotal.WithLabelValues(kind).Add(float64(items))
}

// RecordSourceFetchError records a failed source read.
func RecordSourceFetchError(kind string) {
	SourceFetchErrors.WithLabelValues(kind).Inc()
}

// RecordItemsDropped records items removed by a selection stage.
func RecordItemsDropped(stage string, count int) {
	if count <= 0 {
		return
	}
	ItemsDroppedTotal.WithLabelValues(stage).Add(float64(count))
}

// RecordDigestSize records the size of the assembled digest.
func RecordDigestSize(count int) {
	DigestItems.Set(float64(count))
}

// RecordEnrichment records one enrichment outcome. Disabled enrichments
// carry no duration.
func RecordEnrichment(status string, duration time.Duration) {
	EnrichmentsTotal.WithLabelValues(status).Inc()
	if status != "disabled" {
		EnrichmentDuration.Observe(duration.Seconds())
	}
}

// RecordContentFetchSuccess records a successful content fetch.
func RecordContentFetchSuccess(duration time.Duration, size int) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
	ContentFetchSize.Observe(float64(size))
}

// RecordContentFetchFailed records a failed content fetch.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records a fetch skipped because the snippet was long enough.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordSend records a delivery attempt.
func RecordSend(mode, status string) {
	SendsTotal.WithLabelValues(mode, status).Inc()
}

// RecordPipelineRun records the outcome of a run.
func RecordPipelineRun(outcome string) {
	PipelineRunsTotal.WithLabelValues(outcome).Inc()
}
