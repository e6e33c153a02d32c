package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/resilience/circuitbreaker"
)

// gdeltSeenLayout is the compact timestamp GDELT uses for seendate.
const gdeltSeenLayout = "20060102T150405Z"

// GDELTReader runs a query against the GDELT DOC API in article-list mode.
type GDELTReader struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	baseURL        string
	maxRecords     int
	timeout        time.Duration
	logger         *slog.Logger
}

// NewGDELTReader creates a reader for cfg.GDELTBaseURL.
func NewGDELTReader(client *http.Client, cfg Config, logger *slog.Logger) *GDELTReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &GDELTReader{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.GDELTConfig()),
		baseURL:        cfg.GDELTBaseURL,
		maxRecords:     cfg.GDELTMaxRecords,
		timeout:        cfg.Timeout,
		logger:         logger,
	}
}

type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
}

type gdeltArticle struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	SeenDate     string `json:"seendate"`
	PubTime      string `json:"pubtime"`
	PublishDate  string `json:"publishdate"`
	Domain       string `json:"domain"`
	SourceDomain string `json:"sourceDomain"`
	SocialImage  string `json:"socialimage"`
}

// Read runs query over the last 24 hours.
func (r *GDELTReader) Read(ctx context.Context, query string) ([]entity.Item, error) {
	items, err := circuitbreaker.Do(r.circuitBreaker, func() ([]entity.Item, error) {
		return r.doRead(ctx, query)
	})
	if err != nil {
		if circuitbreaker.IsRejected(err) {
			r.logger.Warn("gdelt circuit breaker open, request rejected",
				slog.String("query", query),
				slog.String("state", r.circuitBreaker.State().String()))
		}
		return nil, fmt.Errorf("gdelt query %q: %w", query, err)
	}
	return items, nil
}

func (r *GDELTReader) requestURL(query string) (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("mode", "ArtList")
	q.Set("format", "json")
	q.Set("TIMESPAN", "24H")
	q.Set("maxrecords", strconv.Itoa(r.maxRecords))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r *GDELTReader) doRead(ctx context.Context, query string) ([]entity.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reqURL, err := r.requestURL(query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	// GDELT answers an empty result set with an empty body.
	if len(strings.TrimSpace(string(body))) == 0 {
		return []entity.Item{}, nil
	}

	var payload gdeltResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("decode response: not JSON: %.120s", strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]entity.Item, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		source := firstNonEmpty(a.SourceDomain, a.Domain, "GDELT")
		items = append(items, entity.NewItem(a.Title, a.URL, source, a.SocialImage, gdeltTime(a)))
	}
	return items, nil
}

// gdeltTime parses seendate, else pubtime, else publishdate. Zero means unknown.
func gdeltTime(a gdeltArticle) time.Time {
	for _, raw := range []string{a.SeenDate, a.PubTime, a.PublishDate} {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		if t, err := time.Parse(gdeltSeenLayout, raw); err == nil {
			return t
		}
		if t, err := dateparse.ParseIn(raw, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
