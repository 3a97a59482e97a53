package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every codecorrect metric so a run can be exported as a
// textfile without the Go runtime collectors.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// Metrics definitions
var (
	WarningsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "codecorrect_warnings_total",
		Help: "Diagnostic warnings seen by the destructor phase, by outcome.",
	}, []string{"outcome"})

	SkipsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "codecorrect_skips_total",
		Help: "Items skipped, by phase and error code.",
	}, []string{"phase", "code"})

	FilesWrittenTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "codecorrect_files_written_total",
		Help: "Files rewritten on disk, by kind.",
	}, []string{"kind"})

	ForwardDeclsRemovedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "codecorrect_forward_decls_removed_total",
		Help: "Forward declarations replaced by an include.",
	})

	AliasesRemovedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "codecorrect_aliases_removed_total",
		Help: "Pointer alias shortcuts removed.",
	})

	AmbiguousResolutionsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "codecorrect_ambiguous_resolutions_total",
		Help: "Names resolved while defined in more than one header.",
	})

	UnresolvedNamesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "codecorrect_unresolved_names_total",
		Help: "Forward-declared names with no defining header.",
	})

	IndexedNames = factory.NewGauge(prometheus.GaugeOpts{
		Name: "codecorrect_index_names",
		Help: "Names in the most recently frozen symbol index.",
	})

	PhaseDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codecorrect_phase_seconds",
		Help:    "Time spent in each processing phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	WatcherEventsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "codecorrect_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// WriteMetricsFile dumps the registry in the node-exporter textfile format.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
