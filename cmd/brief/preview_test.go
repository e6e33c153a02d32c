package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/usecase/digest"
)

func previewDigest(now time.Time) *digest.Digest {
	items := []entity.Item{
		entity.NewItem("SAP announces S/4HANA Cloud roadmap", "https://news.sap.com/a", "SAP News Center", "", now.Add(-time.Hour)),
		entity.NewItem("ボックス統合の新機能がGAに到達し、全ての地域で利用可能になりました", "https://example.jp/b", "example.jp", "", now.Add(-3*time.Hour)),
		entity.NewItem("Gartner on iPaaS", "https://gartner.com/c", "Gartner", "", time.Time{}),
	}
	items[0].Summary = "SAP outlined the next releases."
	items[0].Why = "Plan upgrade windows."
	return digest.Assemble(items, digest.NewCapPolicy(0), "Daily ERP & Middleware Brief", now)
}

func TestWriteTable(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	d := previewDigest(now)
	ranker := digest.NewRanker(digest.DefaultRules(now, digest.DefaultTokens())...)

	var buf bytes.Buffer
	writeTable(&buf, d, ranker, tableOptions{titleWidth: 30})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2+len(d.Items))
	assert.Contains(t, lines[0], "Score")
	assert.Contains(t, lines[2], "SAP announces S/4HANA Cloud r…")
	assert.Contains(t, lines[2], "Mar 10, 11:00 UTC")
	assert.Contains(t, lines[4], digest.NoTimestamp)

	// Every row has the same display width up to the title column.
	prefix := runewidth.StringWidth(lines[2]) - runewidth.StringWidth("SAP announces S/4HANA Cloud r…")
	for _, line := range lines[3:] {
		title := d.Items[indexOfRow(line)].Title
		truncated := runewidth.Truncate(title, 30, ellipsis)
		assert.Equal(t, prefix, runewidth.StringWidth(line)-runewidth.StringWidth(truncated), line)
	}
	assert.NotContains(t, buf.String(), "Why it matters")
}

func TestWriteTable_Details(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	d := previewDigest(now)
	ranker := digest.NewRanker(digest.DefaultRules(now, digest.DefaultTokens())...)

	var buf bytes.Buffer
	writeTable(&buf, d, ranker, tableOptions{titleWidth: 80, details: true})
	out := buf.String()

	assert.Contains(t, out, "https://news.sap.com/a")
	assert.Contains(t, out, "SAP outlined the next releases.")
	assert.Contains(t, out, "Why it matters: Plan upgrade windows.")
	assert.Contains(t, out, "vendor=3.00")
	assert.Contains(t, out, "press=2.00")
}

func indexOfRow(line string) int {
	n := 0
	for _, r := range strings.TrimSpace(line) {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n - 1
}
