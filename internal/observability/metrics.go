// Package observability holds the Prometheus instrumentation for the
// analysis pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the engine.
type Metrics struct {
	AnalysesTotal         *prometheus.CounterVec // labels: tier={low,moderate,high,critical}
	AnalysisErrors        prometheus.Counter
	FallbackSubstitutions *prometheus.CounterVec // labels: factor
	AnalysisDuration      prometheus.Histogram
	PropertyLookups       *prometheus.CounterVec // labels: result={hit,miss,error}
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AnalysisErrors,
		m.FallbackSubstitutions,
		m.AnalysisDuration,
		m.PropertyLookups,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// that construct the service repeatedly do not hit "already registered"
// panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "titleguard",
			Name:      "analyses_total",
			Help:      "Completed risk assessments by resulting tier.",
		}, []string{"tier"}),
		AnalysisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "titleguard",
			Name:      "analysis_errors_total",
			Help:      "Analysis requests aborted by geometry or configuration errors.",
		}),
		FallbackSubstitutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "titleguard",
			Name:      "fallback_substitutions_total",
			Help:      "Raw inputs replaced by deterministic fallback values, by factor.",
		}, []string{"factor"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "titleguard",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete analysis pipeline run.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		PropertyLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "titleguard",
			Name:      "property_lookups_total",
			Help:      "Stored property record lookups by result.",
		}, []string{"result"}),
	}
}
