package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LookupFunc resolves a configuration key. It has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Loader reads typed values from the environment and never fails: a value
// that does not parse or validate is replaced by its default and a warning
// is recorded. Callers inspect Warnings once loading is complete.
//
// Example:
//
//	l := config.NewLoader(nil, metrics)
//	schedule := l.String("CRON_SCHEDULE", "0 11 * * *", config.ValidateCronSchedule)
//	timeout := l.Duration("RUN_TIMEOUT", 15*time.Minute, config.ValidatePositiveDuration)
//	for _, w := range l.Warnings() {
//	    logger.Warn("configuration fallback", slog.String("warning", w))
//	}
type Loader struct {
	lookup   LookupFunc
	metrics  *Metrics
	warnings []string
}

// NewLoader creates a loader. A nil lookup reads the process environment;
// a nil metrics disables fallback accounting.
func NewLoader(lookup LookupFunc, metrics *Metrics) *Loader {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Loader{lookup: lookup, metrics: metrics}
}

// MapLookup returns a LookupFunc backed by a map. Useful in tests.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Warnings returns the fallback warnings collected so far.
func (l *Loader) Warnings() []string {
	return append([]string(nil), l.warnings...)
}

// FallbackApplied reports whether any value fell back to its default.
func (l *Loader) FallbackApplied() bool {
	return len(l.warnings) > 0
}

// Finish records the load timestamp and the fallback gauge.
func (l *Loader) Finish() {
	if l.metrics == nil {
		return
	}
	l.metrics.RecordLoadTimestamp()
	l.metrics.SetFallbackActive(l.FallbackApplied())
}

// raw returns the trimmed value for key; empty means unset.
func (l *Loader) raw(key string) string {
	v, _ := l.lookup(key)
	return strings.TrimSpace(v)
}

func (l *Loader) fallback(key, value string, err error, def any) {
	l.warnings = append(l.warnings,
		fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", key, value, err, def))
	if l.metrics != nil {
		field := strings.ToLower(key)
		l.metrics.RecordValidationError(field)
		l.metrics.RecordFallback(field)
	}
}

// Raw returns the value of key as is, or def when unset. No validation.
func (l *Loader) Raw(key, def string) string {
	if v := l.raw(key); v != "" {
		return v
	}
	return def
}

// String returns the value of key validated by validate, or def.
func (l *Loader) String(key, def string, validate func(string) error) string {
	v := l.raw(key)
	if v == "" {
		return def
	}
	if validate != nil {
		if err := validate(v); err != nil {
			l.fallback(key, v, err, def)
			return def
		}
	}
	return v
}

// Int parses key as a base-10 integer.
func (l *Loader) Int(key string, def int, validate func(int) error) int {
	v := l.raw(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.fallback(key, v, fmt.Errorf("invalid integer format"), def)
		return def
	}
	if validate != nil {
		if err := validate(n); err != nil {
			l.fallback(key, v, err, def)
			return def
		}
	}
	return n
}

// Bool parses key with strconv.ParseBool.
func (l *Loader) Bool(key string, def bool) bool {
	v := l.raw(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.fallback(key, v, fmt.Errorf("invalid boolean format, expected 'true' or 'false'"), def)
		return def
	}
	return b
}

// Duration parses key with time.ParseDuration.
func (l *Loader) Duration(key string, def time.Duration, validate func(time.Duration) error) time.Duration {
	v := l.raw(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.fallback(key, v, err, def)
		return def
	}
	if validate != nil {
		if err := validate(d); err != nil {
			l.fallback(key, v, err, def)
			return def
		}
	}
	return d
}

// List splits key on commas, trimming blanks. An unset or all-blank value
// yields def.
func (l *Loader) List(key string, def []string) []string {
	v := l.raw(key)
	if v == "" {
		return def
	}
	out := make([]string, 0, strings.Count(v, ",")+1)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
