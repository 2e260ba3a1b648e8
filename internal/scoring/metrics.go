// Package scoring provides Prometheus metrics for scoring operations.
package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScoreRequestsTotal tracks total scoring requests by model type and cache outcome
	ScoreRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtside",
			Name:      "score_requests_total",
			Help:      "Total number of model scoring requests",
		},
		[]string{"model_type", "cache_hit"},
	)

	// ScoreLatency tracks scoring request latency
	ScoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "courtside",
			Name:      "score_latency_seconds",
			Help:      "Model scoring latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model_type"},
	)

	// ScoreErrorsTotal tracks scoring errors by type
	ScoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtside",
			Name:      "score_errors_total",
			Help:      "Total number of scoring errors",
		},
		[]string{"model_type", "error_type"},
	)

	// ScoreCacheHitRatio tracks the score cache hit ratio
	ScoreCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "courtside",
			Name:      "score_cache_hit_ratio",
			Help:      "Scoring cache hit ratio",
		},
	)
)
