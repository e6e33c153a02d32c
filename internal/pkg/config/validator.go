package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the classic five-field format.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression such as "0 11 * * *".
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks that an IANA zone name can be loaded.
// Fails for valid names when the image lacks tzdata.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}
	return nil
}

// ValidateDuration checks min <= d <= max.
func ValidateDuration(d, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if d < min || d > max {
		return fmt.Errorf("duration %v out of range [%v, %v]", d, min, max)
	}
	return nil
}

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateIntRange checks min <= v <= max.
func ValidateIntRange(v, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}
	if v < min || v > max {
		return fmt.Errorf("value %d out of range [%d, %d]", v, min, max)
	}
	return nil
}

// ValidatePort accepts TCP ports 1 through 65535.
func ValidatePort(port int) error {
	return ValidateIntRange(port, 1, 65535)
}

// OneOf returns a validator accepting only the given values, case-insensitively.
func OneOf(allowed ...string) func(string) error {
	return func(v string) error {
		if slices.Contains(allowed, strings.ToLower(v)) {
			return nil
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}
