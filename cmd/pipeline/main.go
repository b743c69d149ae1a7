package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtdata/statpipe/internal/app"
	"github.com/courtdata/statpipe/internal/config"
	"github.com/courtdata/statpipe/internal/observability"
	"github.com/courtdata/statpipe/internal/platform/logging"
	"github.com/courtdata/statpipe/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownUptrace(ctx)
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = stopProfiler()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = application.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(cfg.Targets) > 0 {
		result, err := application.BatchService.Run(ctx, usecase.BatchInput{
			Targets:    cfg.Targets,
			Options:    cfg.RunOptions(),
			MaxWorkers: cfg.MaxWorkers,
		})
		if err != nil {
			logger.Error("batch run failed", "error", err)
			if application.Server == nil {
				os.Exit(1)
			}
		} else {
			logger.Info("batch run finished",
				"tasks", result.TaskCount,
				"succeeded", result.SuccessCount,
				"failed", result.FailedCount,
			)
			if application.Server == nil && result.FailedCount > 0 {
				os.Exit(1)
			}
		}
	}

	if application.Server == nil {
		logger.Info("http server disabled, exiting")
		return
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := application.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("http server stopped")
}
