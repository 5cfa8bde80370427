package metrics

import "github.com/prometheus/client_golang/prometheus"

// Scoring Prometheus metrics.
var (
	DocumentsScoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Name:      "documents_scored_total",
			Help:      "Total number of scored documents",
		},
		[]string{"mode", "status"},
	)

	ScoreDistribution = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumatch",
			Name:      "score",
			Help:      "Distribution of produced scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"kind"}, // "semantic" / "rule_based" / "keyword" / "composite"
	)

	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumatch",
			Name:      "scoring_duration_seconds",
			Help:      "Time to score one document",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumatch",
			Name:      "batch_size",
			Help:      "Number of documents per ranking request",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)
)

var scoringMetricsRegistered bool

// RegisterScoringMetrics registers Prometheus scoring metrics. Must be called once from main.
func RegisterScoringMetrics() {
	if scoringMetricsRegistered {
		return
	}
	prometheus.MustRegister(DocumentsScoredTotal)
	prometheus.MustRegister(ScoreDistribution)
	prometheus.MustRegister(ScoringDuration)
	prometheus.MustRegister(BatchSize)
	scoringMetricsRegistered = true
}
