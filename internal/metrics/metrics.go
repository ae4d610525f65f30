// Package metrics provides Prometheus metrics for veracity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts analyses by kind and outcome.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veracity",
			Name:      "analyses_total",
			Help:      "Total number of analyses",
		},
		[]string{"kind", "outcome"},
	)

	// AnalysisDuration measures end-to-end analysis time.
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "veracity",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of analyses in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Scores observes the distribution of headline scores.
	Scores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "veracity",
			Name:      "score",
			Help:      "Distribution of headline scores (0-100)",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"kind"},
	)

	// FetchTotal counts page fetches by status.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "veracity",
			Name:      "fetch_total",
			Help:      "Total number of page fetches",
		},
		[]string{"status"},
	)
)

// Outcome labels
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Fetch status labels
const (
	FetchOK         = "ok"
	FetchCached     = "cached"
	FetchDisallowed = "disallowed"
	FetchError      = "error"
)

// RecordAnalysis records a finished analysis.
func RecordAnalysis(kind, outcome string, duration float64) {
	AnalysesTotal.WithLabelValues(kind, outcome).Inc()
	AnalysisDuration.WithLabelValues(kind).Observe(duration)
}

// RecordScore records the headline score of a successful analysis.
func RecordScore(kind string, score int) {
	Scores.WithLabelValues(kind).Observe(float64(score))
}

// RecordFetch records a page fetch outcome.
func RecordFetch(status string) {
	FetchTotal.WithLabelValues(status).Inc()
}
