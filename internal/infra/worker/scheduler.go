package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"daily-brief/internal/usecase/digest"
)

// Job is one pipeline run.
type Job func(ctx context.Context) (*digest.RunStats, error)

// Scheduler triggers Job on a cron schedule. A run still in progress when
// the next tick fires makes that tick a no-op.
type Scheduler struct {
	config  Config
	job     Job
	metrics *Metrics
	health  *HealthServer
	logger  *slog.Logger
	cron    *cron.Cron
	entry   cron.EntryID

	// runCtx parents every scheduled run; Stop cancels it.
	runCtx    context.Context
	cancelRun context.CancelFunc
}

// NewScheduler validates the schedule and registers the job. Metrics and
// health may be nil.
func NewScheduler(cfg Config, job Job, metrics *Metrics, health *HealthServer, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	runCtx, cancelRun := context.WithCancel(context.Background())
	s := &Scheduler{
		runCtx:    runCtx,
		cancelRun: cancelRun,
		config:  cfg,
		job:     job,
		metrics: metrics,
		health:  health,
		logger:  logger,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}

	s.entry, err = s.cron.AddFunc(cfg.CronSchedule, s.tick)
	if err != nil {
		cancelRun()
		return nil, fmt.Errorf("add cron job %q: %w", cfg.CronSchedule, err)
	}
	return s, nil
}

// Start begins scheduling and marks the health server ready.
func (s *Scheduler) Start() {
	s.cron.Start()
	if s.health != nil {
		s.health.SetReady(true)
	}
	s.logger.Info("worker started",
		slog.String("schedule", s.config.CronSchedule),
		slog.String("timezone", s.config.Timezone),
		slog.Time("next_run", s.Next()))
}

// Stop stops scheduling and cancels a run in progress. The returned context
// is done once that run has returned.
func (s *Scheduler) Stop() context.Context {
	if s.health != nil {
		s.health.SetReady(false)
	}
	done := s.cron.Stop()
	s.cancelRun()
	return done
}

func (s *Scheduler) tick() {
	_ = s.RunOnce(s.runCtx)
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// RunOnce executes the job with the configured timeout and records the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()
	s.recordRun("started")
	s.logger.Info("scheduled run started")

	ctx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	stats, err := s.job(ctx)
	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordJobDuration(duration.Seconds())
	}

	status := RunStatus{FinishedAt: time.Now().UTC()}
	if stats != nil {
		status.RunID = stats.RunID
		status.Skipped = stats.Skipped
		status.Items = stats.DigestItems
	}

	if err != nil {
		status.Error = err.Error()
		s.recordRun("failure")
		s.publish(status)
		s.logger.Error("scheduled run failed",
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return err
	}

	status.Success = true
	if status.Skipped {
		s.recordRun("skipped")
	} else {
		s.recordRun("success")
		if s.metrics != nil && stats != nil && stats.Sent {
			s.metrics.RecordItemsSent(stats.DigestItems)
		}
	}
	if s.metrics != nil {
		s.metrics.RecordLastSuccess()
	}
	s.publish(status)
	s.logger.Info("scheduled run completed",
		slog.String("run_id", status.RunID),
		slog.Bool("skipped", status.Skipped),
		slog.Int("items", status.Items),
		slog.Duration("duration", duration))
	return nil
}

func (s *Scheduler) recordRun(status string) {
	if s.metrics != nil {
		s.metrics.RecordJobRun(status)
	}
}

func (s *Scheduler) publish(status RunStatus) {
	if s.health != nil {
		s.health.RecordRun(status)
	}
}
