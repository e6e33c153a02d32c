package config

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-brief/internal/infra/mailer"
	"daily-brief/internal/infra/summarizer"
	pkgconfig "daily-brief/internal/pkg/config"
)

func load(t *testing.T, env map[string]string) (Config, []string, error) {
	t.Helper()
	metrics := pkgconfig.NewMetrics("test_brief", prometheus.NewRegistry())
	return Load(pkgconfig.MapLookup(env), metrics)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, warnings, err := load(t, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Daily ERP & Middleware Brief", cfg.Brief.Title)
	assert.Equal(t, 15, cfg.Brief.MaxItems)
	assert.Equal(t, 1, cfg.Brief.MinItems)
	assert.True(t, cfg.Brief.KeywordFilter)
	assert.Equal(t, "sources.yml", cfg.SourcesFile)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.False(t, cfg.Fetcher.Enabled)
	assert.Equal(t, summarizer.TypeOpenAI, cfg.Summarizer.Type)
	assert.False(t, cfg.Summarizer.Enabled())
	assert.Equal(t, mailer.ModeTransactional, cfg.Mailer.Mode)
	assert.Empty(t, cfg.Mailer.Recipients)
	assert.Equal(t, "0 11 * * *", cfg.Worker.CronSchedule)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, warnings, err := load(t, map[string]string{
		"BRIEF_TITLE":       "Integration Weekly",
		"MAX_ITEMS":         "0",
		"MIN_ITEMS_TO_SEND": "3",
		"KEYWORD_FILTER":    "false",
		"SOURCES_FILE":      "/etc/brief/sources.yml",
		"OUTPUT_DIR":        "/var/brief",
		"ARCHIVE_BASE_URL":  "https://brief.example.com/archive",
		"SUMMARIZER_TYPE":   "Claude",
		"ANTHROPIC_API_KEY": "key",
		"ENRICH_TIMEOUT":    "20s",
		"HTTP_TIMEOUT":      "10s",
		"DELIVERY_MODE":     "campaign",
		"BREVO_API_KEY":     "xkeysib",
		"BREVO_LIST_ID":     "42",
		"RECIPIENTS":        "a@example.com, b@example.com",
		"SENDER_EMAIL":      "brief@example.com",
		"UNSUBSCRIBE_URL":   "https://example.com/u",
		"LOG_LEVEL":         "DEBUG",
		"LOG_FORMAT":        "text",
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Integration Weekly", cfg.Brief.Title)
	assert.Equal(t, 0, cfg.Brief.MaxItems)
	assert.Equal(t, 3, cfg.Brief.MinItems)
	assert.False(t, cfg.Brief.KeywordFilter)
	assert.Equal(t, "/etc/brief/sources.yml", cfg.SourcesFile)
	assert.Equal(t, "/var/brief", cfg.OutputDir)
	assert.Equal(t, "https://brief.example.com/archive", cfg.ArchiveBaseURL)

	assert.Equal(t, summarizer.TypeClaude, cfg.Summarizer.Type)
	assert.True(t, cfg.Summarizer.Enabled())
	assert.Equal(t, 20*time.Second, cfg.Summarizer.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Scraper.Timeout)

	assert.Equal(t, mailer.ModeCampaign, cfg.Mailer.Mode)
	assert.Equal(t, int64(42), cfg.Mailer.ListID)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Mailer.Recipients)
	assert.Equal(t, "brief@example.com", cfg.Mailer.SenderEmail)
	assert.Equal(t, "https://example.com/u", cfg.Mailer.UnsubscribeURL)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestLoad_FallsBackOnUnparsableValues(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := pkgconfig.NewMetrics("test_brief", reg)

	cfg, warnings, err := Load(pkgconfig.MapLookup(map[string]string{
		"MAX_ITEMS":       "many",
		"KEYWORD_FILTER":  "sometimes",
		"SUMMARIZER_TYPE": "mistral",
		"DELIVERY_MODE":   "pigeon",
		"HTTP_TIMEOUT":    "-5s",
	}), metrics)
	require.NoError(t, err)

	assert.Len(t, warnings, 5)
	assert.Equal(t, 15, cfg.Brief.MaxItems)
	assert.True(t, cfg.Brief.KeywordFilter)
	assert.Equal(t, summarizer.TypeOpenAI, cfg.Summarizer.Type)
	assert.Equal(t, mailer.ModeTransactional, cfg.Mailer.Mode)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("max_items")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbackActive))
}

func TestLoad_NegativeMaxItemsFallsBack(t *testing.T) {
	cfg, warnings, err := load(t, map[string]string{"MAX_ITEMS": "-4", "MIN_ITEMS_TO_SEND": "0"})
	require.NoError(t, err)

	assert.Len(t, warnings, 1)
	assert.Equal(t, 15, cfg.Brief.MaxItems)
	assert.Equal(t, 1, cfg.Brief.MinItems)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad recipient", map[string]string{"RECIPIENTS": "ops@example.com,not-an-address"}, "RECIPIENTS"},
		{"bad unsubscribe url", map[string]string{"UNSUBSCRIBE_URL": "unsubscribe me"}, "UNSUBSCRIBE_URL"},
		{"bad archive url", map[string]string{"ARCHIVE_BASE_URL": "archive"}, "ArchiveBaseURL"},
		{"bad sender", map[string]string{"SENDER_EMAIL": "nobody"}, "sender email"},
		{"same ports", map[string]string{"WORKER_HEALTH_PORT": "9090"}, "worker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := load(t, tt.env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_ValidateBrief(t *testing.T) {
	cfg, _, err := load(t, nil)
	require.NoError(t, err)

	cfg.Brief.Title = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Title")
}
