package summarizer

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder records the outcome of summarization calls.
// Tests inject their own implementation.
type MetricsRecorder interface {
	RecordRequest(provider, status string)
	RecordDuration(provider string, d time.Duration)
	RecordLength(provider string, runes int)
}

// PrometheusMetrics implements MetricsRecorder on the default registry.
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	length   *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return c
}

func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
	}
	return h
}

// NewPrometheusMetrics returns the process-wide recorder.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requests: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "brief_summary_requests_total",
				Help: "Summarization calls by provider and status (success, failure, rejected, empty)",
			}, []string{"provider", "status"}),
			duration: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "brief_summary_duration_seconds",
				Help:    "Time taken by a summarization API call",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			}, []string{"provider"}),
			length: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "brief_summary_length_runes",
				Help:    "Length of generated summaries in runes",
				Buckets: []float64{50, 100, 150, 200, 300, 400, 600},
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

func (p *PrometheusMetrics) RecordRequest(provider, status string) {
	p.requests.WithLabelValues(provider, status).Inc()
}

func (p *PrometheusMetrics) RecordDuration(provider string, d time.Duration) {
	p.duration.WithLabelValues(provider).Observe(d.Seconds())
}

func (p *PrometheusMetrics) RecordLength(provider string, runes int) {
	p.length.WithLabelValues(provider).Observe(float64(runes))
}
