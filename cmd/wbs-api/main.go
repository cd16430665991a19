package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-wbs/internal/api"
	"github.com/lzjever/mbos-wbs/internal/core"
	"github.com/lzjever/mbos-wbs/internal/editing"
	"github.com/lzjever/mbos-wbs/internal/exthost"
	"github.com/lzjever/mbos-wbs/internal/fileio"
	"github.com/lzjever/mbos-wbs/internal/host"
	"github.com/lzjever/mbos-wbs/internal/janitor"
	"github.com/lzjever/mbos-wbs/internal/observability"
	"github.com/lzjever/mbos-wbs/internal/recent"
	"github.com/lzjever/mbos-wbs/internal/settings"
	"github.com/lzjever/mbos-wbs/internal/store"
	"github.com/lzjever/mbos-wbs/internal/untitled"
)

func main() {
	var cfg api.Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	var janitorCfg janitor.Config
	if err := envconfig.Process("", &janitorCfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, _ := observability.NewLogger(cfg.LogLevel)
	defer log.Sync()

	// Replace global logger
	zap.ReplaceGlobals(log)

	reg := prometheus.DefaultRegisterer
	observability.RegisterAll(reg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	platform := cfg.Platform
	if platform == "" {
		platform = runtime.GOOS
	}
	p := core.ParsePlatform(platform)

	var st store.Store
	if cfg.DBDSN != "" {
		pool, err := store.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			log.Fatal("db connect failed", zap.Error(err))
		}
		defer pool.Close()
		if err := store.Migrate(ctx, pool); err != nil {
			log.Fatal("db migrate failed", zap.Error(err))
		}
		st = store.NewPostgres(pool, log)
	} else {
		log.Warn("WBS_DB_DSN not set, storage is kept in memory")
		st = store.NewMemory()
	}

	var signaler exthost.Signaler
	if cfg.ExtHostAddr != "" {
		client, err := exthost.Dial(cfg.ExtHostAddr)
		if err != nil {
			log.Fatal("exthost dial failed", zap.Error(err))
		}
		defer client.Close()
		signaler = client
	} else {
		signaler = exthost.NewLocal(exthost.NewServer(log))
	}

	files := fileio.NewLocalFS(log)
	dirty := editing.NewDirtySet(p)
	rec := recent.NewRegistry(cfg.RecentFile, cfg.RecentLimit, p, log)
	untitledSvc := untitled.New(cfg.UntitledRoot, files, p, log)
	h := host.New(host.Options{
		Platform:   p,
		BackupRoot: cfg.BackupRoot,
		SaveDir:    cfg.DefaultSaveDir,
		TestMode:   cfg.TestMode,
	}, host.Deps{
		Files:    files,
		Store:    st,
		Registry: settings.NewRegistry(settings.DefaultProperties()...),
		Dirty:    dirty,
		Untitled: untitledSvc,
		Recent:   rec,
		Signaler: signaler,
	}, log)
	go janitor.New(untitledSvc, h, h, p, janitorCfg, log.Named("janitor")).Run(ctx)

	// Main API server
	apiHandler := api.NewAPI(h, st, rec, dirty, p, log)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      apiHandler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Metrics server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: mux,
	}

	go func() {
		log.Info("metrics server starting", zap.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		log.Info("API server starting", zap.String("addr", cfg.HTTPAddr), zap.String("platform", string(p)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("API server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down API server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info("API server stopped")
}
