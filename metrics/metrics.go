package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertscope_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertscope_events_ingested_total",
			Help: "Total number of events analyzed, by timestamp validity",
		},
		[]string{"validity"},
	)

	EventsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertscope_events_classified_total",
			Help: "Total number of events classified, by main category",
		},
		[]string{"main_category"},
	)

	PatternsFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertscope_patterns_found_total",
			Help: "Total number of cyclic patterns found, by window length",
		},
		[]string{"window_length"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alertscope_run_duration_seconds",
			Help:    "Time taken to analyze one event batch",
			Buckets: prometheus.DefBuckets,
		},
	)
)
