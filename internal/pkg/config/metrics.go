package config

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks configuration loading for one component.
//
// Metrics generated (prefixed by the component name):
//   - {component}_config_load_timestamp: Unix time of the last load
//   - {component}_config_validation_errors_total{field}
//   - {component}_config_fallbacks_total{field}
//   - {component}_config_fallback_active: 1 while any default replaced a bad value
type Metrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	FallbackActive        prometheus.Gauge
}

// NewMetrics registers the configuration metrics of component with reg.
// A nil reg uses the default registerer; registering the same component
// twice on one registry panics.
func NewMetrics(component string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		LoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", component),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", component),
		}),
		ValidationErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_validation_errors_total", component),
			Help: fmt.Sprintf("Total number of %s configuration validation errors", component),
		}, []string{"field"}),
		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_fallbacks_total", component),
			Help: fmt.Sprintf("Total number of %s configuration fallbacks to defaults", component),
		}, []string{"field"}),
		FallbackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_fallback_active", component),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", component),
		}),
	}
}

func (m *Metrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

func (m *Metrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

func (m *Metrics) RecordFallback(field string) {
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

func (m *Metrics) SetFallbackActive(active bool) {
	if active {
		m.FallbackActive.Set(1)
		return
	}
	m.FallbackActive.Set(0)
}
