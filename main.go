package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cholwatch/internal/config"
	"cholwatch/internal/container"
	"cholwatch/internal/ops"

	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables from .env file
	if !config.LoadDotEnv() {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	logger := appContainer.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("[Main] Starting web server on port %s (column %q, upload limit %d MB)",
			appConfig.Server.Port, appConfig.Analysis.Column, appConfig.Server.MaxUploadMB)
		return appContainer.WebServer.Start(gctx)
	})

	if appContainer.OpsServer != nil {
		g.Go(func() error {
			logger.Info("[Main] Metrics at http://localhost:%s/metrics, profiles at /debug/pprof/", appConfig.Ops.Port)
			return ops.Serve(gctx, appContainer.OpsServer, "OpsServer", logger)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("[Main] Server stopped with error: %v", err)
		stop()
		os.Exit(1)
	}
	logger.Info("[Main] Shutdown complete")
}
