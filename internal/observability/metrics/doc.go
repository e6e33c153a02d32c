// Package metrics provides the Prometheus collectors of the digest pipeline.
//
// Collectors are registered with the default registry through promauto and
// exposed by the worker's /metrics endpoint. One-shot runs record them too;
// nothing scrapes them in that mode.
//
// Example usage:
//
//	import "daily-brief/internal/observability/metrics"
//
//	func readSource(kind string) {
//	    start := time.Now()
//	    items := ...
//	    metrics.RecordSourceFetch(kind, time.Since(start), len(items))
//	}
package metrics
