package worker

import (
	"errors"
	"fmt"
	"time"

	"daily-brief/internal/pkg/config"
)

// Config controls the long-running scheduler.
type Config struct {
	// CronSchedule is a five-field cron expression.
	CronSchedule string
	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string
	// RunTimeout bounds one pipeline run.
	RunTimeout  time.Duration
	HealthPort  int
	MetricsPort int
}

// DefaultConfig runs once a day at 11:00 New York time.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "0 11 * * *",
		Timezone:     "America/New_York",
		RunTimeout:   15 * time.Minute,
		HealthPort:   9091,
		MetricsPort:  9090,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.RunTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, fmt.Errorf("health and metrics ports must differ, both %d", c.HealthPort))
	}
	return errors.Join(errs...)
}

// LoadConfig reads the worker settings through l. Invalid values fall back
// to their defaults and are reported as loader warnings.
func LoadConfig(l *config.Loader) Config {
	def := DefaultConfig()
	portRange := func(v int) error { return config.ValidateIntRange(v, 1024, 65535) }

	cfg := Config{
		CronSchedule: l.String("CRON_SCHEDULE", def.CronSchedule, config.ValidateCronSchedule),
		Timezone:     l.String("WORKER_TIMEZONE", def.Timezone, config.ValidateTimezone),
		RunTimeout: l.Duration("RUN_TIMEOUT", def.RunTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, time.Minute, 4*time.Hour)
		}),
		HealthPort:  l.Int("WORKER_HEALTH_PORT", def.HealthPort, portRange),
		MetricsPort: l.Int("METRICS_PORT", def.MetricsPort, portRange),
	}
	return cfg
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
