package api

import "time"

type Config struct {
	HTTPAddr        string        `envconfig:"WBS_HTTP_ADDR" default:"0.0.0.0:8080"`
	MetricsAddr     string        `envconfig:"WBS_METRICS_ADDR" default:"0.0.0.0:9090"`
	LogLevel        string        `envconfig:"WBS_LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"WBS_SHUTDOWN_TIMEOUT" default:"30s"`

	// DBDSN selects the Postgres store; empty keeps storage in memory.
	DBDSN string `envconfig:"WBS_DB_DSN"`
	// ExtHostAddr is the gRPC address of wbs-exthost; empty runs it in-process.
	ExtHostAddr string `envconfig:"WBS_EXTHOST_ADDR"`

	Platform       string `envconfig:"WBS_PLATFORM"`
	UntitledRoot   string `envconfig:"WBS_UNTITLED_ROOT" default:"/var/lib/wbs/untitled"`
	BackupRoot     string `envconfig:"WBS_BACKUP_ROOT"`
	RecentFile     string `envconfig:"WBS_RECENT_FILE" default:"/var/lib/wbs/recent.yaml"`
	RecentLimit    int    `envconfig:"WBS_RECENT_LIMIT" default:"50"`
	DefaultSaveDir string `envconfig:"WBS_DEFAULT_SAVE_DIR" default:"/var/lib/wbs"`
	TestMode       bool   `envconfig:"WBS_EXTENSION_TEST_MODE" default:"false"`
}
