package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/app"
	"github.com/riskibarqy/fantasy-hockey/internal/config"
	"github.com/riskibarqy/fantasy-hockey/internal/observability"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-hockey/internal/worker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel).Named("worker")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	telemetry, err := observability.Setup(cfg, observability.Options{Component: "worker", Profiling: true}, logger)
	if err != nil {
		logger.Error("init telemetry", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	scheduler := worker.NewScheduler(
		worker.Schedules{
			Snapshot: cfg.WorkerSnapshotCron,
			Scoring:  cfg.WorkerScoringCron,
			Totals:   cfg.WorkerTotalsCron,
		},
		cfg.GameDayLocation,
		services.Scoring,
		services.Roster,
		services.Standings,
		resilience.NewCircuitBreakerFromConfig(cfg.ScoringCircuit),
		services.Metrics,
		logger.Named("scheduler"),
	)
	if err := scheduler.Start(); err != nil {
		logger.Error("start scheduler", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", services.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if cfg.WorkerPprofEnabled {
		observability.MountPprof(mux)
	}
	srv := &http.Server{
		Addr:              cfg.WorkerMetricsAddr,
		Handler:           otelhttp.NewHandler(mux, "fantasy-hockey-worker"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", "addr", cfg.WorkerMetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exitCode := 0
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler shutdown failed", "error", err)
		exitCode = 1
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown failed", "error", err)
		exitCode = 1
	}
	if err := services.Close(); err != nil {
		logger.Error("close app", "error", err)
		exitCode = 1
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Warn("telemetry shutdown", "error", err)
	}

	logger.Info("worker stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
