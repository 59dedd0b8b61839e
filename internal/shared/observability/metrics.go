package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	DecodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "loom_decode_seconds",
		Help:    "Time spent structurally decoding a source file.",
		Buckets: prometheus.DefBuckets,
	})

	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loom_pipeline_seconds",
		Help:    "Time spent in one pipeline stage for a compilation unit.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	UnitsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loom_units_processed_total",
		Help: "Total number of compilation units processed, by outcome.",
	}, []string{"outcome"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "loom_graph_nodes_total",
		Help: "Registration nodes in the last validated dependency graph.",
	})

	TokensEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loom_tokens_emitted_total",
		Help: "Total number of annotation tokens produced by the lexer.",
	})

	GeneratedFilesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loom_generated_files_total",
		Help: "Total number of wiring files written.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loom_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RegenerationsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loom_regenerations_skipped_total",
		Help: "Watch-mode regenerations dropped by the rate limiter.",
	})
)
