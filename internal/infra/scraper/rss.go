// Package scraper implements the source readers of a digest run: RSS/Atom
// feeds and GDELT document searches. Each read is a single attempt bounded by
// a timeout; failures are reported to the caller, which skips the source.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/resilience/circuitbreaker"
)

// RSSReader reads RSS, Atom and JSON feeds.
type RSSReader struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	timeout        time.Duration
	logger         *slog.Logger
}

// NewRSSReader creates a feed reader using client for downloads.
func NewRSSReader(client *http.Client, cfg Config, logger *slog.Logger) *RSSReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSReader{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		timeout:        cfg.Timeout,
		logger:         logger,
	}
}

// Read downloads and parses the feed at feedURL.
func (r *RSSReader) Read(ctx context.Context, feedURL string) ([]entity.Item, error) {
	items, err := circuitbreaker.Do(r.circuitBreaker, func() ([]entity.Item, error) {
		return r.doRead(ctx, feedURL)
	})
	if err != nil {
		if circuitbreaker.IsRejected(err) {
			r.logger.Warn("feed fetch circuit breaker open, request rejected",
				slog.String("url", feedURL),
				slog.String("state", r.circuitBreaker.State().String()))
		}
		return nil, fmt.Errorf("read feed %s: %w", feedURL, err)
	}
	return items, nil
}

func (r *RSSReader) doRead(ctx context.Context, feedURL string) ([]entity.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = feedURL
	}

	items := make([]entity.Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		snippet := it.Description
		if strings.TrimSpace(snippet) == "" {
			snippet = it.Content
		}
		items = append(items, entity.NewItem(it.Title, it.Link, source, CleanSnippet(snippet), feedItemTime(it)))
	}
	return items, nil
}

// feedItemTime returns the published time, else the updated time, else a
// best-effort parse of the raw date strings. Zero means unknown.
func feedItemTime(it *gofeed.Item) time.Time {
	switch {
	case it.PublishedParsed != nil:
		return *it.PublishedParsed
	case it.UpdatedParsed != nil:
		return *it.UpdatedParsed
	}
	for _, raw := range []string{it.Published, it.Updated} {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		if t, err := dateparse.ParseAny(raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
