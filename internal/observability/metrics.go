package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// wbs-api metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wbs_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"route", "method", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wbs_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	ActiveRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wbs_active_requests",
		Help: "Current in-flight requests",
	})

	OpenWindows = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wbs_open_windows",
		Help: "Windows currently registered with the host",
	})

	// workspace editing metrics
	FolderUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wbs_folder_updates_total",
		Help: "Folder set changes by reconciled plan",
	}, []string{"plan"})

	EditErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wbs_edit_errors_total",
		Help: "Workspace configuration edit failures",
	}, []string{"code"})

	SaveAsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wbs_save_as_total",
		Help: "Workspace save-as attempts",
	}, []string{"result"})

	FileWriteDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wbs_file_write_duration_seconds",
		Help:    "Atomic file write duration",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
	})

	// migration metrics
	MigrationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wbs_migration_total",
		Help: "Workspace entry attempts by outcome",
	}, []string{"outcome"})

	MigrationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wbs_migration_duration_seconds",
		Help:    "Workspace entry end-to-end duration",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	RuntimeRestartTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wbs_runtime_restart_total",
		Help: "Extension runtime restarts by reason",
	}, []string{"reason"})

	WorkspaceStateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wbs_workspace_state_transitions_total",
		Help: "Workbench state transition count",
	}, []string{"from", "to"})

	ShutdownDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wbs_shutdown_decisions_total",
		Help: "Shutdown guard decisions",
	}, []string{"decision"})

	JanitorRemovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wbs_janitor_removed_total",
		Help: "Orphaned empty untitled workspaces removed",
	})

	OrphanedUntitled = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wbs_untitled_orphaned",
		Help: "Untitled workspaces with folders that no window has open",
	})

	// wbs-exthost metrics
	ExtHostSignalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wbs_exthost_signals_total",
		Help: "Stop/start signals received by the extension host",
	}, []string{"signal"})
)

func RegisterAll(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, ActiveRequests, OpenWindows,
		FolderUpdatesTotal, EditErrorsTotal, SaveAsTotal, FileWriteDuration,
		MigrationTotal, MigrationDuration, RuntimeRestartTotal, WorkspaceStateTransitions,
		ShutdownDecisionsTotal, JanitorRemovedTotal, OrphanedUntitled, ExtHostSignalsTotal,
	)
}
