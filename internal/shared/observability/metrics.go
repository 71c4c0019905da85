package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lodestar_parse_seconds",
		Help:    "Time spent parsing a Rust source file.",
		Buckets: prometheus.DefBuckets,
	})

	AnalyzeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lodestar_analyze_seconds",
		Help:    "Time spent building the semantic database for a crate.",
		Buckets: prometheus.DefBuckets,
	})

	ClassifyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodestar_classify_requests_total",
		Help: "Classification requests by outcome.",
	}, []string{"outcome"})

	ClassifyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lodestar_classify_seconds",
		Help:    "Time spent classifying the token under a request offset.",
		Buckets: prometheus.DefBuckets,
	})

	IndexedSymbols = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lodestar_index_symbols_total",
		Help: "Number of symbol rows currently in the workspace index.",
	})

	IndexSyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lodestar_index_sync_seconds",
		Help:    "Latency for syncing one crate's symbols into the index.",
		Buckets: prometheus.DefBuckets,
	})

	SymbolLookupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lodestar_symbol_lookups_total",
		Help: "Workspace symbol lookups served from the index.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lodestar_watcher_events_total",
		Help: "File system events received by the watcher.",
	})

	RescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lodestar_rescans_total",
		Help: "Workspace rescans triggered by file changes.",
	})
)
