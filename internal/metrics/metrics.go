// Package metrics provides Prometheus metrics for the prediction pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "courtside"

// Counter metrics
var (
	PicksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "picks_created_total",
		Help:      "Total number of picks created",
	})
	PicksSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "picks_skipped_total",
		Help:      "Total number of fixtures skipped without a new pick",
	}, []string{"reason"})
	PicksFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "picks_failed_total",
		Help:      "Total number of fixtures that failed pick generation",
	})
	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlements_total",
		Help:      "Total number of settled bet outcomes",
	}, []string{"bet_type", "outcome"})
	SettlementErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlement_errors_total",
		Help:      "Total number of per-pick settlement errors",
	}, []string{"error_type"})
	StatRowsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stat_rows_ingested_total",
		Help:      "Total number of stat rows inserted",
	})
	StatRowsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stat_rows_dropped_total",
		Help:      "Total number of stat rows dropped during cleaning",
	}, []string{"reason"})
	SchemaDefaultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schema_defaults_total",
		Help:      "Total number of feature values defaulted to zero to satisfy a model schema",
	})
)

// Gauge metrics
var (
	UnsettledPicks = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "unsettled_picks",
		Help:      "Number of picks awaiting settlement",
	})
	SpreadWinRate = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "spread_win_rate",
		Help:      "Historical spread win rate, pushes excluded",
	})
	TotalWinRate = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "total_win_rate",
		Help:      "Historical over/under win rate, pushes excluded",
	})
)

// Histogram metrics
var (
	PipelineRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_run_duration_seconds",
		Help:      "Duration of pipeline stage runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	}, []string{"stage"})
)

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
