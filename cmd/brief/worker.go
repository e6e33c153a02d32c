package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"daily-brief/internal/infra/worker"
	"daily-brief/internal/observability/tracing"
)

var workerCommand = &cobra.Command{
	Use:   "worker",
	Short: "Run the digest on a cron schedule",
	Long: `Schedules one digest run per CRON_SCHEDULE tick in WORKER_TIMEZONE, each bounded by
RUN_TIMEOUT. Exposes /metrics on METRICS_PORT and /health, /health/ready on WORKER_HEALTH_PORT.`,
	RunE: workerCmd,
}

var workerRunNow bool

func init() {
	workerCommand.Flags().BoolVar(&workerRunNow, "run-now", false, "Run once at startup before waiting for the schedule")

	rootCmd.AddCommand(workerCommand)
}

func workerCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.Setup()
	defer func() { _ = shutdownTracing(context.Background()) }()

	a, err := newApp(ctx, appOptions{registry: prometheus.DefaultRegisterer})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	logger := a.logger
	cfg := a.cfg.Worker
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("run_timeout", cfg.RunTimeout),
		slog.Int("health_port", cfg.HealthPort),
		slog.Int("metrics_port", cfg.MetricsPort))

	metrics := worker.NewMetrics(prometheus.DefaultRegisterer)
	worker.StartMetricsServer(ctx, fmt.Sprintf(":%d", cfg.MetricsPort), prometheus.DefaultGatherer, logger)

	health := worker.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger)
	go func() {
		if err := health.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	scheduler, err := worker.NewScheduler(cfg, a.service.Run, metrics, health, logger)
	if err != nil {
		return err
	}

	if workerRunNow {
		// Failures are recorded by the scheduler; the worker keeps running.
		_ = scheduler.RunOnce(ctx)
	}

	scheduler.Start()
	<-ctx.Done()
	logger.Info("shutdown signal received, cancelling running job")

	select {
	case <-scheduler.Stop().Done():
		logger.Info("worker stopped")
	case <-time.After(cfg.RunTimeout):
		logger.Warn("running job did not finish before shutdown timeout")
	}
	return nil
}
