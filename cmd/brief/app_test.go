package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-brief/internal/infra/mailer"
	pkgconfig "daily-brief/internal/pkg/config"
	"daily-brief/internal/usecase/digest"
)

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testApp(t *testing.T, env map[string]string) (*app, error) {
	t.Helper()
	a, err := newApp(context.Background(), appOptions{
		lookup:   pkgconfig.MapLookup(env),
		registry: prometheus.NewRegistry(),
		logOut:   io.Discard,
	})
	if a != nil {
		t.Cleanup(func() { _ = a.Close() })
	}
	return a, err
}

func TestNewApp_Wiring(t *testing.T) {
	sources := writeSourcesFile(t, `
rss_feeds: [https://news.sap.com/feed/]
gdelt_queries: ['"Oracle Fusion"']
keywords: [SAP]
`)
	a, err := testApp(t, map[string]string{
		"SOURCES_FILE":    sources,
		"SUMMARIZER_TYPE": "none",
		"MAX_ITEMS":       "30",
		"OUTPUT_DIR":      t.TempDir(),
	})
	require.NoError(t, err)

	svc := a.service
	assert.Equal(t, []digest.Source{
		{Kind: digest.SourceRSS, Target: "https://news.sap.com/feed/"},
		{Kind: digest.SourceGDELT, Target: `"Oracle Fusion"`},
	}, svc.Sources)
	assert.Contains(t, svc.Readers, digest.SourceRSS)
	assert.Contains(t, svc.Readers, digest.SourceGDELT)
	assert.Equal(t, 20, svc.Options.Cap.Limit)
	assert.Equal(t, []string{"SAP"}, svc.Options.Keywords)
	assert.False(t, svc.Enricher.Enabled())

	_, skip := svc.Sender.(*mailer.SkipSender)
	assert.True(t, skip, "sender without BREVO_API_KEY should skip")
}

func TestNewApp_Errors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		_, err := testApp(t, map[string]string{
			"SOURCES_FILE": writeSourcesFile(t, "rss_feeds: [https://example.com/feed]\n"),
			"RECIPIENTS":   "not-an-email",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RECIPIENTS")
	})

	t.Run("missing sources file", func(t *testing.T) {
		_, err := testApp(t, map[string]string{
			"SOURCES_FILE": filepath.Join(t.TempDir(), "missing.yml"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read sources file")
	})
}

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>SAP News Center</title>
  <item>
    <title>SAP announces S/4HANA Cloud roadmap</title>
    <link>https://news.sap.com/2025/roadmap?utm_source=rss</link>
    <description>&lt;p&gt;SAP shared the next S/4HANA Cloud releases.&lt;/p&gt;</description>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Duplicate of the roadmap post</title>
    <link>https://news.sap.com/2025/roadmap</link>
    <description>Same story, SAP again.</description>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Gardening tips</title>
    <link>https://news.sap.com/2025/garden</link>
    <description>Nothing about business software.</description>
    <pubDate>%s</pubDate>
  </item>
  <item>
    <title>Old SAP news</title>
    <link>https://news.sap.com/2020/old</link>
    <description>SAP from long ago.</description>
    <pubDate>Mon, 06 Jan 2020 10:00:00 +0000</pubDate>
  </item>
</channel>
</rss>`

func TestRun_EndToEnd(t *testing.T) {
	recent := time.Now().Add(-2 * time.Hour).UTC().Format(time.RFC1123Z)
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = fmt.Fprintf(w, feedTemplate, recent, recent, recent)
	}))
	defer feed.Close()

	var (
		mu   sync.Mutex
		sent []map[string]any
	)
	brevo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/smtp/email", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		sent = append(sent, body)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<1@smtp-relay>"}`))
	}))
	defer brevo.Close()

	outDir := t.TempDir()
	a, err := testApp(t, map[string]string{
		"SOURCES_FILE":    writeSourcesFile(t, fmt.Sprintf("rss_feeds: [%s]\n", feed.URL)),
		"OUTPUT_DIR":      outDir,
		"SUMMARIZER_TYPE": "none",
		"BREVO_API_KEY":   "test-key",
		"BREVO_BASE_URL":  brevo.URL,
		"RECIPIENTS":      "ops@example.com",
	})
	require.NoError(t, err)

	stats, err := a.service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Sources)
	assert.Equal(t, 4, stats.Fetched)
	assert.Equal(t, 3, stats.InWindow)
	assert.Equal(t, 2, stats.KeywordMatched)
	assert.Equal(t, 1, stats.Unique)
	assert.Equal(t, 1, stats.DigestItems)
	assert.Equal(t, 1, stats.Fallbacks)
	assert.True(t, stats.Sent)

	name := time.Now().UTC().Format("2006-01-02") + ".html"
	assert.Equal(t, filepath.Join(outDir, name), stats.ArchivePath)
	html, err := os.ReadFile(stats.ArchivePath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "SAP announces S/4HANA Cloud roadmap")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0]["subject"].(string), "Daily ERP & Middleware Brief"))
	assert.Equal(t, string(html), sent[0]["htmlContent"])
}

func TestRun_SkipsWithTooFewItems(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`)
	}))
	defer feed.Close()

	outDir := t.TempDir()
	a, err := testApp(t, map[string]string{
		"SOURCES_FILE":    writeSourcesFile(t, fmt.Sprintf("rss_feeds: [%s]\n", feed.URL)),
		"OUTPUT_DIR":      outDir,
		"SUMMARIZER_TYPE": "none",
	})
	require.NoError(t, err)

	stats, err := a.service.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Skipped)
	assert.False(t, stats.Sent)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_WithoutDeliveryConfigIsNotSent(t *testing.T) {
	published := time.Now().UTC().Add(-time.Hour).Format(time.RFC1123Z)
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>SAP News</title>
<item><title>SAP announces S/4HANA Cloud roadmap</title><link>https://news.sap.com/roadmap</link><pubDate>%s</pubDate></item>
</channel></rss>`, published)
	}))
	defer feed.Close()

	outDir := t.TempDir()
	a, err := testApp(t, map[string]string{
		"SOURCES_FILE":    writeSourcesFile(t, fmt.Sprintf("rss_feeds: [%s]\n", feed.URL)),
		"OUTPUT_DIR":      outDir,
		"SUMMARIZER_TYPE": "none",
	})
	require.NoError(t, err)

	stats, err := a.service.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, stats.Sent)
	assert.True(t, stats.SendSkipped)
	assert.Equal(t, 1, stats.DigestItems)
	assert.FileExists(t, stats.ArchivePath)
}

func TestRun_EmptySourceListSkips(t *testing.T) {
	outDir := t.TempDir()
	a, err := testApp(t, map[string]string{
		"SOURCES_FILE":    writeSourcesFile(t, "rss_feeds: []\ngdelt_queries: []\n"),
		"OUTPUT_DIR":      outDir,
		"SUMMARIZER_TYPE": "none",
	})
	require.NoError(t, err)
	assert.Empty(t, a.service.Sources)

	stats, err := a.service.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Skipped)
	assert.False(t, stats.Sent)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name  string
		stats *digest.RunStats
		want  []string
	}{
		{"nil", nil, nil},
		{"skipped", &digest.RunStats{Skipped: true, Unique: 0}, []string{"Skipped: only 0 unique items"}},
		{
			"sent with failures",
			&digest.RunStats{Sent: true, DigestItems: 12, ArchivePath: "out/2025-03-10.html", Sources: 5, SourceErrors: 2, Fallbacks: 3},
			[]string{"Sent 12 items (archive: out/2025-03-10.html)", "2 of 5 sources failed", "3 items used the fallback summary"},
		},
		{
			"delivery not configured",
			&digest.RunStats{SendSkipped: true, DigestItems: 2, ArchivePath: "out/2025-03-10.html"},
			[]string{"Not sent: delivery is not configured (2 items, archive: out/2025-03-10.html)"},
		},
		{"not sent", &digest.RunStats{DigestItems: 4, ArchivePath: "out/x.html"}, []string{"Not sent (4 items"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&buf)

			printStats(cmd, tt.stats)

			if tt.want == nil {
				assert.Empty(t, buf.String())
			}
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}
