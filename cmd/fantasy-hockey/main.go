package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/fantasy-hockey/internal/app"
	"github.com/riskibarqy/fantasy-hockey/internal/config"
	"github.com/riskibarqy/fantasy-hockey/internal/interfaces/cli"
	"github.com/riskibarqy/fantasy-hockey/internal/observability"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(os.Stderr, cfg.LogLevel).Named("cli")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Setup(cfg, observability.Options{Component: "cli"}, logger)
	if err != nil {
		logger.Error("init telemetry", "error", err)
		return cli.ExitInternal
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	services, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return cli.ExitInternal
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	return cli.NewRunner(services, os.Stdout, os.Stderr, logger).Run(ctx, os.Args[1:])
}
