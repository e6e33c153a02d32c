package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"daily-brief/internal/pkg/config"
)

// Metrics combines the configuration metrics of the worker with job metrics.
//
//   - brief_worker_config_*: see config.Metrics
//   - brief_worker_job_runs_total{status}: started, success, skipped, failure
//   - brief_worker_job_duration_seconds
//   - brief_worker_job_items_sent_total: digest items in delivered editions
//   - brief_worker_job_last_success_timestamp
type Metrics struct {
	*config.Metrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   prometheus.Histogram
	JobItemsSentTotal    prometheus.Counter
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics registers the worker metrics with reg, or the default registerer when nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Metrics: config.NewMetrics("brief_worker", reg),

		JobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brief_worker_job_runs_total",
			Help: "Scheduled pipeline runs by status",
		}, []string{"status"}),

		JobDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "brief_worker_job_duration_seconds",
			Help:    "Duration of scheduled pipeline runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		JobItemsSentTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "brief_worker_job_items_sent_total",
			Help: "Digest items included in delivered editions",
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "brief_worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run",
		}),
	}
}

func (m *Metrics) RecordJobRun(status string) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordJobDuration(seconds float64) {
	m.JobDurationSeconds.Observe(seconds)
}

func (m *Metrics) RecordItemsSent(n int) {
	m.JobItemsSentTotal.Add(float64(n))
}

func (m *Metrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
