package digest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/usecase/digest"
)

/* ───────── stubs ───────── */

type stubSummarizer struct {
	fn     func(in digest.Input) (entity.Enrichment, error)
	inputs []digest.Input
}

func (s *stubSummarizer) Summarize(_ context.Context, in digest.Input) (entity.Enrichment, error) {
	s.inputs = append(s.inputs, in)
	return s.fn(in)
}

type stubContentFetcher struct {
	content string
	err     error
	calls   int
}

func (s *stubContentFetcher) FetchContent(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.content, s.err
}

/* ───────── tests ───────── */

func TestFallbackEnrichment(t *testing.T) {
	long := strings.Repeat("x", 500)

	tests := []struct {
		name  string
		item  entity.Item
		limit int
		want  string
	}{
		{name: "prefix of snippet", item: entity.Item{Title: "t", SummaryRaw: long}, limit: 140, want: long[:140]},
		{name: "short snippet kept whole", item: entity.Item{Title: "t", SummaryRaw: "short"}, limit: 200, want: "short"},
		{name: "empty snippet uses title", item: entity.Item{Title: "the title"}, limit: 140, want: "the title"},
		{name: "blank snippet uses title", item: entity.Item{Title: "the title", SummaryRaw: "   "}, limit: 140, want: "the title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := digest.FallbackEnrichment(tt.item, tt.limit)
			assert.Equal(t, tt.want, got.Summary)
			assert.Empty(t, got.Why)
		})
	}
}

func TestEnricher_Disabled(t *testing.T) {
	e := digest.NewEnricher(nil, nil, 0, nil)
	item := entity.Item{Title: "t", SummaryRaw: strings.Repeat("é", 300)}

	r := e.Enrich(context.Background(), item)

	assert.False(t, e.Enabled())
	assert.True(t, r.Fallback())
	assert.ErrorIs(t, r.Err, digest.ErrSummarizerDisabled)
	assert.Equal(t, digest.DisabledFallbackRunes, len([]rune(r.Item.Summary)))
	assert.Empty(t, r.Item.Why)
}

func TestEnricher_Success(t *testing.T) {
	s := &stubSummarizer{fn: func(in digest.Input) (entity.Enrichment, error) {
		return entity.Enrichment{Summary: "summary of " + in.Title, Why: "it matters"}, nil
	}}
	e := digest.NewEnricher(s, nil, 0, nil)

	r := e.Enrich(context.Background(), entity.Item{Title: "SAP", URL: "https://x.com", Source: "SAP News", SummaryRaw: "raw"})

	require.NoError(t, r.Err)
	assert.Equal(t, "summary of SAP", r.Item.Summary)
	assert.Equal(t, "it matters", r.Item.Why)
	require.Len(t, s.inputs, 1)
	assert.Equal(t, digest.Input{Title: "SAP", URL: "https://x.com", Source: "SAP News", Snippet: "raw"}, s.inputs[0])
}

func TestEnricher_FailureIsPerItem(t *testing.T) {
	boom := errors.New("api down")
	s := &stubSummarizer{fn: func(in digest.Input) (entity.Enrichment, error) {
		if in.Title == "bad" {
			return entity.Enrichment{}, boom
		}
		return entity.Enrichment{Summary: "ok", Why: "why"}, nil
	}}
	e := digest.NewEnricher(s, nil, 0, nil)

	results := e.EnrichAll(context.Background(), []entity.Item{
		{Title: "good"},
		{Title: "bad", SummaryRaw: strings.Repeat("y", 300)},
		{Title: "good again"},
	})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "ok", results[0].Item.Summary)

	assert.ErrorIs(t, results[1].Err, boom)
	assert.Equal(t, strings.Repeat("y", digest.FailureFallbackRunes), results[1].Item.Summary)
	assert.Empty(t, results[1].Item.Why)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, "why", results[2].Item.Why)
}

func TestEnricher_EmptySummaryFallsBack(t *testing.T) {
	s := &stubSummarizer{fn: func(digest.Input) (entity.Enrichment, error) {
		return entity.Enrichment{Summary: "  ", Why: "w"}, nil
	}}
	e := digest.NewEnricher(s, nil, 0, nil)

	r := e.Enrich(context.Background(), entity.Item{Title: "title only"})

	assert.ErrorIs(t, r.Err, digest.ErrEmptySummary)
	assert.Equal(t, "title only", r.Item.Summary)
	assert.Empty(t, r.Item.Why)
}

func TestEnricher_ContentEnhancement(t *testing.T) {
	echo := func(in digest.Input) (entity.Enrichment, error) {
		return entity.Enrichment{Summary: in.Snippet}, nil
	}

	tests := []struct {
		name        string
		snippet     string
		fetched     string
		fetchErr    error
		threshold   int
		wantSnippet string
		wantCalls   int
	}{
		{
			name:        "short snippet replaced by longer content",
			snippet:     "short",
			fetched:     "a much longer article body",
			threshold:   100,
			wantSnippet: "a much longer article body",
			wantCalls:   1,
		},
		{
			name:        "long snippet skips fetch",
			snippet:     strings.Repeat("s", 100),
			fetched:     "unused",
			threshold:   100,
			wantSnippet: strings.Repeat("s", 100),
			wantCalls:   0,
		},
		{
			name:        "fetch error keeps snippet",
			snippet:     "short",
			fetchErr:    errors.New("timeout"),
			threshold:   100,
			wantSnippet: "short",
			wantCalls:   1,
		},
		{
			name:        "shorter fetched content is ignored",
			snippet:     "short snippet",
			fetched:     "tiny",
			threshold:   100,
			wantSnippet: "short snippet",
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := &stubContentFetcher{content: tt.fetched, err: tt.fetchErr}
			e := digest.NewEnricher(&stubSummarizer{fn: echo}, cf, tt.threshold, nil)

			r := e.Enrich(context.Background(), entity.Item{Title: "t", URL: "https://x.com", SummaryRaw: tt.snippet})

			require.NoError(t, r.Err)
			assert.Equal(t, tt.wantSnippet, r.Item.Summary)
			assert.Equal(t, tt.snippet, r.Item.SummaryRaw, "raw snippet must not change")
			assert.Equal(t, tt.wantCalls, cf.calls)
		})
	}
}
