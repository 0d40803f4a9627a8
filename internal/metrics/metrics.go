// Package metrics provides the centralized Prometheus metrics registry for
// the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "psa_predict",
		Name:      "predictions_total",
		Help:      "Total number of predictions served",
	})
	GuardrailCapsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "psa_predict",
		Name:      "guardrail_caps_total",
		Help:      "Total number of predictions where the tier-gap cap was applied",
	})
	GuardrailOverridesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "psa_predict",
		Name:      "guardrail_overrides_total",
		Help:      "Total number of predictions where override conditions lifted the cap",
	})
	SourceFetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "psa_predict",
		Name:      "source_fetch_errors_total",
		Help:      "Total number of failed source fetches",
	}, []string{"source"})
	RankingLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "psa_predict",
		Name:      "ranking_lookups_total",
		Help:      "Total number of ranking lookups by cache outcome",
	}, []string{"outcome"})
	StaleRankingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "psa_predict",
		Name:      "stale_rankings_total",
		Help:      "Total number of ranking snapshots rejected for staleness",
	})
)

// Histogram metrics
var (
	PredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "psa_predict",
		Name:      "prediction_duration_seconds",
		Help:      "End-to-end prediction latency including source fetches",
		Buckets:   prometheus.DefBuckets,
	})
	SourceFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "psa_predict",
		Name:      "source_fetch_duration_seconds",
		Help:      "Per-source history fetch latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// Gauge metrics
var (
	MergedHistorySize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "psa_predict",
		Name:      "merged_history_size",
		Help:      "Number of records in the most recently merged history",
	})
)

// Registry returns the global metrics registry, registering all metrics on
// first use
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			PredictionsTotal,
			GuardrailCapsTotal,
			GuardrailOverridesTotal,
			SourceFetchErrorsTotal,
			RankingLookupsTotal,
			StaleRankingsTotal,
			PredictionDuration,
			SourceFetchDuration,
			MergedHistorySize,
		)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}
