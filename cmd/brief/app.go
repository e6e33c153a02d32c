package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"daily-brief/internal/config"
	"daily-brief/internal/infra/fetcher"
	"daily-brief/internal/infra/mailer"
	"daily-brief/internal/infra/renderer"
	"daily-brief/internal/infra/scraper"
	"daily-brief/internal/infra/summarizer"
	"daily-brief/internal/observability/logging"
	pkgconfig "daily-brief/internal/pkg/config"
	"daily-brief/internal/usecase/digest"
)

// app is the wired pipeline of one process.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	service  *digest.Service
	renderer *renderer.HTMLRenderer
	closers  []io.Closer
}

// appOptions lets tests replace the process environment and registry.
type appOptions struct {
	lookup   pkgconfig.LookupFunc
	registry prometheus.Registerer
	logOut   io.Writer
}

// newApp loads the configuration and source list and wires every component.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfgMetrics := pkgconfig.NewMetrics("brief", opts.registry)
	cfg, warnings, err := config.Load(opts.lookup, cfgMetrics)

	logOpts := cfg.Log
	if err != nil {
		logOpts = logging.Options{}
	}
	var logger *slog.Logger
	if opts.logOut != nil {
		logger = logging.NewLoggerTo(opts.logOut, logOpts)
	} else {
		logger = logging.NewLogger(logOpts)
	}
	slog.SetDefault(logger)

	for _, w := range warnings {
		logger.Warn("configuration fallback", slog.String("warning", w))
	}
	if err != nil {
		return nil, err
	}

	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, err
	}
	if sources.Empty() {
		logger.Warn("no rss_feeds or gdelt_queries configured", slog.String("file", cfg.SourcesFile))
	}

	a := &app{cfg: cfg, logger: logger}
	if err := a.wire(ctx, sources); err != nil {
		_ = a.Close()
		return nil, err
	}

	logger.Info("configuration loaded",
		slog.Int("sources", len(a.service.Sources)),
		slog.Int("max_items", cfg.Brief.MaxItems),
		slog.Bool("keyword_filter", cfg.Brief.KeywordFilter),
		slog.String("summarizer", cfg.Summarizer.Type),
		slog.Bool("summarizer_enabled", cfg.Summarizer.Enabled()),
		slog.Bool("content_fetch", cfg.Fetcher.Enabled),
		slog.String("delivery_mode", cfg.Mailer.Mode),
		slog.String("output_dir", cfg.OutputDir))
	return a, nil
}

func (a *app) wire(ctx context.Context, sources *config.Sources) error {
	cfg := a.cfg

	readers := scraper.NewReaderFactory(newHTTPClient(cfg.Scraper.Timeout), cfg.Scraper, a.logger).CreateReaders()

	sum, err := summarizer.New(ctx, cfg.Summarizer, a.logger)
	if err != nil {
		return fmt.Errorf("create summarizer: %w", err)
	}
	if c, ok := sum.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	if sum == nil {
		a.logger.Info("enrichment disabled, using snippet fallback",
			slog.String("summarizer", cfg.Summarizer.Type))
	}

	var contentFetcher digest.ContentFetcher
	if cfg.Fetcher.Enabled {
		contentFetcher = fetcher.NewReadabilityFetcher(cfg.Fetcher, a.logger)
	}

	a.renderer, err = renderer.NewHTMLRenderer(renderer.Config{
		SenderName:     cfg.Mailer.SenderName,
		SenderEmail:    cfg.Mailer.SenderEmail,
		UnsubscribeURL: cfg.Mailer.UnsubscribeURL,
		ArchiveBaseURL: cfg.ArchiveBaseURL,
	})
	if err != nil {
		return err
	}

	sender, err := mailer.NewSender(cfg.Mailer, a.logger)
	if err != nil {
		return err
	}

	a.service = &digest.Service{
		Sources:  sources.List(),
		Readers:  readers,
		Enricher: digest.NewEnricher(sum, contentFetcher, cfg.Fetcher.Threshold, a.logger),
		Renderer: a.renderer,
		Archiver: renderer.NewArchive(cfg.OutputDir),
		Sender:   sender,
		Options: digest.Options{
			Title:         cfg.Brief.Title,
			Cap:           digest.NewCapPolicy(cfg.Brief.MaxItems),
			MinItems:      cfg.Brief.MinItems,
			KeywordFilter: cfg.Brief.KeywordFilter,
			Keywords:      sources.Keywords,
			Tokens:        sources.Tokens(),
		},
		Logger: a.logger,
	}
	return nil
}

// Close releases provider clients.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// newHTTPClient creates the client shared by the source readers.
// TLS 1.2+ is enforced.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
