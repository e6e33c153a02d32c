package digest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/observability/metrics"
	"daily-brief/internal/utils/text"
)

const (
	// DisabledFallbackRunes bounds the fallback summary when no summarizer is configured.
	DisabledFallbackRunes = 140
	// FailureFallbackRunes bounds the fallback summary after a summarizer error.
	FailureFallbackRunes = 200
)

// Input is what a summarizer sees for one item.
type Input struct {
	Title   string
	URL     string
	Source  string
	Snippet string
}

// Summarizer produces a short summary and a "why it matters" line for one item.
type Summarizer interface {
	Summarize(ctx context.Context, in Input) (entity.Enrichment, error)
}

// ContentFetcher retrieves readable article text for a URL.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// EnrichResult is the outcome for one item.
type EnrichResult struct {
	Item entity.Item
	// Err is nil on success. On failure Item carries the fallback summary.
	Err error
}

// Fallback reports whether the item carries a fallback summary.
func (r EnrichResult) Fallback() bool { return r.Err != nil }

// Enricher applies a summarizer item by item, falling back deterministically.
type Enricher struct {
	summarizer     Summarizer
	contentFetcher ContentFetcher
	// threshold is the snippet length under which full content is fetched.
	threshold int
	logger    *slog.Logger
}

// NewEnricher creates an enricher. A nil summarizer enables the disabled fallback
// for every item; a nil content fetcher leaves snippets as they are.
func NewEnricher(s Summarizer, cf ContentFetcher, threshold int, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{summarizer: s, contentFetcher: cf, threshold: threshold, logger: logger}
}

// Enabled reports whether a summarizer is configured.
func (e *Enricher) Enabled() bool { return e.summarizer != nil }

// FallbackEnrichment returns the prefix of the raw snippet, or the title if the
// snippet is empty, with an empty why.
func FallbackEnrichment(it entity.Item, limit int) entity.Enrichment {
	summary := entity.TruncateRunes(it.SummaryRaw, limit)
	if strings.TrimSpace(summary) == "" {
		summary = it.Title
	}
	return entity.Enrichment{Summary: summary}
}

// Enrich summarizes one item. It never fails; errors are reported in the result.
func (e *Enricher) Enrich(ctx context.Context, it entity.Item) EnrichResult {
	if e.summarizer == nil {
		metrics.RecordEnrichment("disabled", 0)
		return EnrichResult{
			Item: it.WithEnrichment(FallbackEnrichment(it, DisabledFallbackRunes)),
			Err:  ErrSummarizerDisabled,
		}
	}

	in := Input{
		Title:   it.Title,
		URL:     it.URL,
		Source:  it.Source,
		Snippet: e.enhanceSnippet(ctx, it),
	}

	start := time.Now()
	out, err := e.summarizer.Summarize(ctx, in)
	duration := time.Since(start)
	if err == nil && strings.TrimSpace(out.Summary) == "" {
		err = ErrEmptySummary
	}
	if err != nil {
		metrics.RecordEnrichment("failure", duration)
		e.logger.Warn("summarization failed, using fallback",
			slog.String("url", it.URL),
			slog.String("title", it.Title),
			slog.Any("error", err))
		return EnrichResult{
			Item: it.WithEnrichment(FallbackEnrichment(it, FailureFallbackRunes)),
			Err:  err,
		}
	}

	metrics.RecordEnrichment("success", duration)
	return EnrichResult{Item: it.WithEnrichment(out)}
}

// EnrichAll enriches items sequentially and returns the per-item results in order.
func (e *Enricher) EnrichAll(ctx context.Context, items []entity.Item) []EnrichResult {
	results := make([]EnrichResult, 0, len(items))
	for _, it := range items {
		results = append(results, e.Enrich(ctx, it))
	}
	return results
}

// enhanceSnippet swaps in fetched article text when the snippet is short and
// the fetched text is longer. Fetch failures keep the snippet.
func (e *Enricher) enhanceSnippet(ctx context.Context, it entity.Item) string {
	snippet := it.SummaryRaw
	if e.contentFetcher == nil {
		return snippet
	}
	if text.CountRunes(snippet) >= e.threshold {
		metrics.RecordContentFetchSkipped()
		return snippet
	}

	start := time.Now()
	content, err := e.contentFetcher.FetchContent(ctx, it.URL)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordContentFetchFailed(duration)
		e.logger.Debug("content fetch failed, using snippet",
			slog.String("url", it.URL),
			slog.Any("error", err))
		return snippet
	}
	metrics.RecordContentFetchSuccess(duration, len(content))

	if text.CountRunes(content) <= text.CountRunes(snippet) {
		return snippet
	}
	return content
}
