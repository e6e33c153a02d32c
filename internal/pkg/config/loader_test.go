package config

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_String(t *testing.T) {
	l := NewLoader(MapLookup(map[string]string{
		"CRON_SCHEDULE": "0 6 * * *",
		"BAD_CRON":      "not a cron",
		"BLANK":         "   ",
	}), nil)

	assert.Equal(t, "0 6 * * *", l.String("CRON_SCHEDULE", "0 11 * * *", ValidateCronSchedule))
	assert.Equal(t, "0 11 * * *", l.String("BAD_CRON", "0 11 * * *", ValidateCronSchedule))
	assert.Equal(t, "def", l.String("BLANK", "def", nil))
	assert.Equal(t, "def", l.String("MISSING", "def", nil))

	require.Len(t, l.Warnings(), 1)
	assert.Contains(t, l.Warnings()[0], "Invalid BAD_CRON='not a cron'")
	assert.Contains(t, l.Warnings()[0], "falling back to default '0 11 * * *'")
	assert.True(t, l.FallbackApplied())
}

func TestLoader_Int(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		want         int
		wantFallback bool
	}{
		{name: "unset", value: "", want: 15},
		{name: "valid", value: "18", want: 18},
		{name: "padded", value: " 12 ", want: 12},
		{name: "not a number", value: "abc", want: 15, wantFallback: true},
		{name: "trailing garbage", value: "12abc", want: 15, wantFallback: true},
		{name: "out of range", value: "500", want: 15, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(MapLookup(map[string]string{"MAX_ITEMS": tt.value}), nil)

			got := l.Int("MAX_ITEMS", 15, func(v int) error { return ValidateIntRange(v, 0, 100) })

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFallback, l.FallbackApplied())
		})
	}
}

func TestLoader_Bool(t *testing.T) {
	l := NewLoader(MapLookup(map[string]string{
		"A": "false",
		"B": "1",
		"C": "yes",
	}), nil)

	assert.False(t, l.Bool("A", true))
	assert.True(t, l.Bool("B", false))
	assert.True(t, l.Bool("C", true))
	assert.True(t, l.Bool("UNSET", true))
	require.Len(t, l.Warnings(), 1)
	assert.Contains(t, l.Warnings()[0], "invalid boolean format")
}

func TestLoader_Duration(t *testing.T) {
	l := NewLoader(MapLookup(map[string]string{
		"GOOD":     "90s",
		"BAD":      "soon",
		"NEGATIVE": "-5m",
	}), nil)

	assert.Equal(t, 90*time.Second, l.Duration("GOOD", time.Minute, ValidatePositiveDuration))
	assert.Equal(t, time.Minute, l.Duration("BAD", time.Minute, ValidatePositiveDuration))
	assert.Equal(t, time.Minute, l.Duration("NEGATIVE", time.Minute, ValidatePositiveDuration))
	assert.Len(t, l.Warnings(), 2)
}

func TestLoader_List(t *testing.T) {
	l := NewLoader(MapLookup(map[string]string{
		"RECIPIENTS": " a@example.com, ,b@example.com,",
		"COMMAS":     ",,,",
	}), nil)

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, l.List("RECIPIENTS", nil))
	assert.Equal(t, []string{"x"}, l.List("COMMAS", []string{"x"}))
	assert.Nil(t, l.List("UNSET", nil))
	assert.False(t, l.FallbackApplied())
}

func TestLoader_Raw(t *testing.T) {
	l := NewLoader(MapLookup(map[string]string{"KEY": " sk-123 "}), nil)

	assert.Equal(t, "sk-123", l.Raw("KEY", ""))
	assert.Equal(t, "fallback", l.Raw("NOPE", "fallback"))
}

func TestLoader_ReadsProcessEnvByDefault(t *testing.T) {
	t.Setenv("BRIEF_TEST_VALUE", "from-env")

	l := NewLoader(nil, nil)

	assert.Equal(t, "from-env", l.Raw("BRIEF_TEST_VALUE", ""))
}

func TestLoader_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("loader_test", reg)
	l := NewLoader(MapLookup(map[string]string{
		"WORKER_TIMEZONE": "Mars/Olympus",
		"RUN_TIMEOUT":     "10m",
	}), m)

	l.String("WORKER_TIMEZONE", "UTC", ValidateTimezone)
	l.Duration("RUN_TIMEOUT", time.Minute, ValidatePositiveDuration)
	l.Finish()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("worker_timezone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("worker_timezone")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("run_timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), 0.0)
}

func TestLoader_WarningsIsACopy(t *testing.T) {
	l := NewLoader(MapLookup(map[string]string{"N": "x"}), nil)
	l.Int("N", 1, nil)

	w := l.Warnings()
	w[0] = "changed"

	assert.NotEqual(t, "changed", l.Warnings()[0])
}
