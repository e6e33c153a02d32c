// Package fetcher downloads article pages and extracts their readable text.
// The text only feeds summarizer prompts; it never replaces an item's snippet.
package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/utils/text"
)

const userAgent = "DailyBriefBot/1.0"

// ReadabilityFetcher fetches a page and runs Mozilla's readability algorithm on it.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ContentFetchConfig
	logger         *slog.Logger
}

// NewReadabilityFetcher creates a fetcher. Redirect targets are validated
// the same way as the initial URL.
func NewReadabilityFetcher(cfg ContentFetchConfig, logger *slog.Logger) *ReadabilityFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		config:         cfg,
		logger:         logger,
	}

	f.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.Context(), req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// FetchContent returns the readable text of the page at rawURL with runs of
// whitespace collapsed.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, rawURL string) (string, error) {
	if err := validateURL(ctx, rawURL, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}
	return circuitbreaker.Do(f.circuitBreaker, func() (string, error) {
		return f.doFetch(ctx, rawURL)
	})
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, rawURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: exceeds limit of %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	pageURL := resp.Request.URL
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}

	content := text.CollapseWhitespace(article.TextContent)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: no readable content found", ErrReadabilityFailed)
	}

	f.logger.Debug("content fetched",
		slog.String("url", rawURL),
		slog.Int("bytes", len(body)),
		slog.Int("runes", text.CountRunes(content)))
	return content, nil
}
