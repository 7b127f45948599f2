package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classlink_files_discovered_total",
		Help: "Total number of documentation files matched by discovery.",
	})

	DiagramBlocksExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classlink_diagram_blocks_total",
		Help: "Total number of class-diagram blocks routed to the engine.",
	})

	ClassesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classlink_classes_parsed_total",
		Help: "Total number of class declarations extracted from diagrams.",
	})

	ClassesRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classlink_classes_registered_total",
		Help: "Total number of class specs registered in the symbol table.",
	})

	ClassesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classlink_classes_skipped_total",
		Help: "Total number of classes skipped by structural validation.",
	})

	DeferredQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "classlink_deferred_queue_depth",
		Help: "Current number of deferred reference entries awaiting the second pass.",
	})

	UnresolvedReferences = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "classlink_unresolved_references",
		Help: "Number of references that never resolved in the last completed run.",
	})

	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classlink_phase_seconds",
		Help:    "Time spent in each pipeline phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classlink_runs_total",
		Help: "Completed pipeline runs by outcome.",
	}, []string{"outcome"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classlink_watcher_events_total",
		Help: "Filesystem events seen by the watcher.",
	})
)
