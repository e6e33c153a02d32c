package digest_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/usecase/digest"
)

func makeItems(n int) []entity.Item {
	items := make([]entity.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, entity.Item{
			Title:     fmt.Sprintf("item %d", i),
			URL:       fmt.Sprintf("https://example.com/%d", i),
			Published: fixedNow.Add(-time.Duration(i) * time.Hour),
		})
	}
	return items
}

func TestNewCapPolicy(t *testing.T) {
	tests := []struct {
		maxItems int
		want     int
	}{
		{maxItems: 0, want: 0},
		{maxItems: -3, want: 0},
		{maxItems: 5, want: 10},
		{maxItems: 15, want: 15},
		{maxItems: 20, want: 20},
		{maxItems: 50, want: 20},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("max=%d", tt.maxItems), func(t *testing.T) {
			assert.Equal(t, tt.want, digest.NewCapPolicy(tt.maxItems).Limit)
		})
	}
}

func TestAssemble_SplitsTopAndRest(t *testing.T) {
	d := digest.Assemble(makeItems(8), digest.CapPolicy{}, "Brief", fixedNow)

	require.Equal(t, 8, d.Count())
	assert.Len(t, d.Top(), 5)
	assert.Len(t, d.Rest(), 3)
	assert.Equal(t, "item 0", d.Top()[0].Title)
	assert.Equal(t, "item 5", d.Rest()[0].Title)
	assert.Equal(t, "8 updates from the last 24 hours", d.PreviewText())
}

func TestAssemble_FewerThanTop(t *testing.T) {
	d := digest.Assemble(makeItems(3), digest.CapPolicy{}, "Brief", fixedNow)

	assert.Len(t, d.Top(), 3)
	assert.Empty(t, d.Rest())
}

func TestAssemble_SingleItemPreview(t *testing.T) {
	d := digest.Assemble(makeItems(1), digest.CapPolicy{}, "Brief", fixedNow)
	assert.Equal(t, "1 update from the last 24 hours", d.PreviewText())
}

func TestAssemble_AppliesCap(t *testing.T) {
	tests := []struct {
		name   string
		policy digest.CapPolicy
		input  int
		want   int
	}{
		{name: "no cap keeps everything", policy: digest.CapPolicy{}, input: 40, want: 40},
		{name: "cap truncates", policy: digest.NewCapPolicy(15), input: 40, want: 15},
		{name: "cap larger than input", policy: digest.NewCapPolicy(15), input: 12, want: 12},
		{name: "clamped low cap", policy: digest.NewCapPolicy(3), input: 40, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := digest.Assemble(makeItems(tt.input), tt.policy, "Brief", fixedNow)
			assert.Equal(t, tt.want, d.Count())
			assert.Equal(t, "item 0", d.Items[0].Title)
		})
	}
}

func TestAssemble_PublishedHuman(t *testing.T) {
	items := []entity.Item{
		{URL: "a", Published: time.Date(2025, 3, 9, 7, 5, 0, 0, time.UTC)},
		{URL: "b"},
	}

	d := digest.Assemble(items, digest.CapPolicy{}, "Brief", fixedNow)

	assert.Equal(t, "Mar 09, 07:05 UTC", d.Items[0].PublishedHuman)
	assert.Equal(t, digest.NoTimestamp, d.Items[1].PublishedHuman)
	assert.Empty(t, items[0].PublishedHuman, "input must not be modified")
}

func TestDigest_DateStrings(t *testing.T) {
	d := digest.Assemble(makeItems(1), digest.CapPolicy{}, "Daily ERP & Middleware Brief", fixedNow)

	assert.Equal(t, "Daily ERP & Middleware Brief — Mar 10, 2025", d.Subject())
	assert.Equal(t, "Monday, March 10, 2025", d.LongDate())
	assert.Equal(t, "2025-03-10", d.ArchiveName())
}

func TestHumanTime_ConvertsToUTC(t *testing.T) {
	ts := time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("EST", -5*60*60))
	assert.Equal(t, "Mar 10, 04:30 UTC", digest.HumanTime(ts))
}
