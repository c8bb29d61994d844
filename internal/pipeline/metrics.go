package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_insight_pipeline_runs_total",
		Help: "Total number of analysis pipeline runs",
	})

	symbolsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_insight_symbols_analyzed_total",
		Help: "Total number of symbols analyzed successfully",
	})

	symbolsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_insight_symbols_skipped_total",
		Help: "Total number of symbols skipped, by reason",
	}, []string{"reason"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_insight_stage_duration_seconds",
		Help:    "Duration of pipeline stages",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_insight_series_cache_requests_total",
		Help: "Price series cache lookups, by outcome",
	}, []string{"outcome"})
)
