package exthost

import "time"

type Config struct {
	GRPCAddr        string        `envconfig:"WBS_EXTHOST_GRPC_ADDR" default:"0.0.0.0:7070"`
	MetricsAddr     string        `envconfig:"WBS_EXTHOST_METRICS_ADDR" default:"0.0.0.0:9092"`
	LogLevel        string        `envconfig:"WBS_LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"WBS_EXTHOST_SHUTDOWN_TIMEOUT" default:"30s"`
}
