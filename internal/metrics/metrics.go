// Package metrics defines the Prometheus instruments for the analysis pipeline.
package metrics

import (
	"time"

	"cholwatch/domain/risk"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "cholwatch"

// Analysis outcomes used as the "outcome" label
const (
	OutcomeOK            = "ok"
	OutcomeEmpty         = "empty"
	OutcomeColumnMissing = "column_missing"
	OutcomeReadError     = "read_error"
)

// AnalysisMetrics holds counters and histograms for dataset analyses
type AnalysisMetrics struct {
	// AnalysesTotal counts analyses by outcome.
	AnalysesTotal *prometheus.CounterVec

	// ReadingsClassified counts classified readings by category.
	ReadingsClassified *prometheus.CounterVec

	// ReadingsDropped counts readings excluded before classification.
	// Labels: reason (missing, unparseable)
	ReadingsDropped *prometheus.CounterVec

	// AnalysisDuration measures end-to-end analysis time.
	AnalysisDuration prometheus.Histogram
}

// NewAnalysisMetrics registers the instruments with reg
func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	factory := promauto.With(reg)
	return &AnalysisMetrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "analyses_total",
			Help:      "Dataset analyses by outcome.",
		}, []string{"outcome"}),
		ReadingsClassified: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "readings_classified_total",
			Help:      "Cholesterol readings classified, by risk category.",
		}, []string{"category"}),
		ReadingsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "readings_dropped_total",
			Help:      "Readings excluded before classification, by reason.",
		}, []string{"reason"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time to read, classify and summarize one upload.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

// RecordOutcome counts one finished analysis and its duration
func (m *AnalysisMetrics) RecordOutcome(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
}

// RecordReadings counts classified readings per category and dropped cells
func (m *AnalysisMetrics) RecordReadings(counts map[risk.Category]int, missing, unparseable int) {
	if m == nil {
		return
	}
	for category, n := range counts {
		m.ReadingsClassified.WithLabelValues(category.String()).Add(float64(n))
	}
	m.ReadingsDropped.WithLabelValues("missing").Add(float64(missing))
	m.ReadingsDropped.WithLabelValues("unparseable").Add(float64(unparseable))
}
