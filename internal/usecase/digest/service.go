// Package digest builds the daily edition: it collects items from every
// configured source, keeps the recent and relevant ones, removes duplicates,
// ranks, caps, enriches, renders, archives and finally delivers the result.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/observability/logging"
	"daily-brief/internal/observability/metrics"
	"daily-brief/internal/observability/tracing"
)

// SourceKind selects the reader for a source.
type SourceKind string

const (
	SourceRSS   SourceKind = "rss"
	SourceGDELT SourceKind = "gdelt"
)

// Source is one configured origin of items: a feed URL or a search query.
type Source struct {
	Kind   SourceKind
	Target string
}

// Reader fetches the items of one source.
type Reader interface {
	Read(ctx context.Context, target string) ([]entity.Item, error)
}

// SourceResult is the outcome of reading one source.
type SourceResult struct {
	Source   Source
	Items    []entity.Item
	Err      error
	Duration time.Duration
}

// Renderer turns a digest into an HTML document.
type Renderer interface {
	Render(d *Digest) (string, error)
}

// Archiver persists the rendered HTML under the edition's date.
type Archiver interface {
	Write(name, html string) (string, error)
}

// Message is what a sender delivers.
type Message struct {
	Subject     string
	HTML        string
	PreviewText string
	// ArchiveName is the YYYY-MM-DD stamp of the edition.
	ArchiveName string
}

// Sender delivers a rendered edition.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Options controls the pipeline. It is built once from configuration.
type Options struct {
	Title         string
	Cap           CapPolicy
	MinItems      int
	KeywordFilter bool
	Keywords      []string
	Tokens        Tokens
}

// RunStats summarizes one pipeline run.
type RunStats struct {
	RunID          string
	Sources        int
	SourceErrors   int
	Fetched        int
	InWindow       int
	KeywordMatched int
	Unique         int
	DigestItems    int
	Fallbacks      int
	ArchivePath    string
	Sent           bool
	// SendSkipped is set when the sender was not configured to deliver.
	SendSkipped bool
	// Skipped is set when too few items survived filtering.
	Skipped  bool
	Duration time.Duration
}

// Service orchestrates one digest run. All stages are sequential.
type Service struct {
	Sources  []Source
	Readers  map[SourceKind]Reader
	Enricher *Enricher
	Renderer Renderer
	Archiver Archiver
	Sender   Sender
	Options  Options
	Logger   *slog.Logger
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Run executes the full pipeline. Fewer items than the configured minimum
// end the run early with Skipped set and a nil error; nothing is rendered,
// archived or sent in that case. A delivery error is returned after the
// archive has been written; ErrDeliverySkipped from the sender is not an
// error and leaves Sent unset.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	start := time.Now()
	stats := &RunStats{RunID: uuid.New().String()}
	logger := s.logger().With(slog.String("run_id", stats.RunID))
	ctx = logging.WithLogger(ctx, logger)

	ctx, span := tracing.GetTracer().Start(ctx, "digest.run")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", stats.RunID))

	d, err := s.build(ctx, stats)
	if errors.Is(err, ErrInsufficientItems) {
		stats.Skipped = true
		stats.Duration = time.Since(start)
		metrics.RecordPipelineRun("skipped")
		logger.Info("not enough items, skipping render and delivery",
			slog.Int("items", stats.Unique),
			slog.Int("min_items", s.minItems()))
		return stats, nil
	}
	if err != nil {
		metrics.RecordPipelineRun("failed")
		span.SetStatus(codes.Error, err.Error())
		return stats, err
	}

	html, err := s.render(ctx, d)
	if err != nil {
		metrics.RecordPipelineRun("failed")
		span.SetStatus(codes.Error, err.Error())
		return stats, err
	}

	path, err := s.Archiver.Write(d.ArchiveName(), html)
	if err != nil {
		metrics.RecordPipelineRun("failed")
		span.SetStatus(codes.Error, err.Error())
		return stats, fmt.Errorf("write archive: %w", err)
	}
	stats.ArchivePath = path
	logger.Info("archive written", slog.String("path", path))

	err = s.send(ctx, d, html)
	switch {
	case errors.Is(err, ErrDeliverySkipped):
		stats.SendSkipped = true
		metrics.RecordPipelineRun("not_sent")
		logger.Warn("digest not sent", slog.Any("reason", err))
	case err != nil:
		stats.Duration = time.Since(start)
		metrics.RecordPipelineRun("failed")
		span.SetStatus(codes.Error, err.Error())
		return stats, fmt.Errorf("send digest: %w", err)
	default:
		stats.Sent = true
		metrics.RecordPipelineRun("sent")
	}
	stats.Duration = time.Since(start)

	logger.Info("digest run completed",
		slog.Int("sources", stats.Sources),
		slog.Int("source_errors", stats.SourceErrors),
		slog.Int("fetched", stats.Fetched),
		slog.Int("unique", stats.Unique),
		slog.Int("digest_items", stats.DigestItems),
		slog.Int("fallbacks", stats.Fallbacks),
		slog.Bool("sent", stats.Sent),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}

// Preview runs every stage up to enrichment and returns the digest without
// rendering, archiving or sending. ErrInsufficientItems is returned as is.
func (s *Service) Preview(ctx context.Context) (*Digest, *RunStats, error) {
	stats := &RunStats{RunID: uuid.New().String()}
	ctx = logging.WithLogger(ctx, s.logger().With(slog.String("run_id", stats.RunID)))
	d, err := s.build(ctx, stats)
	return d, stats, err
}

// Ranker returns the ranker used for a run assembled at now.
func (s *Service) Ranker(now time.Time) *Ranker {
	return NewRanker(DefaultRules(now, DefaultTokens().Merge(s.Options.Tokens))...)
}

func (s *Service) minItems() int {
	return max(1, s.Options.MinItems)
}

// build runs fetch, filter, dedupe, rank, assemble and enrich.
func (s *Service) build(ctx context.Context, stats *RunStats) (*Digest, error) {
	now := s.now().UTC()

	results := s.FetchAll(ctx)
	var items []entity.Item
	for _, r := range results {
		if r.Err != nil {
			stats.SourceErrors++
			continue
		}
		items = append(items, r.Items...)
	}
	stats.Sources = len(results)
	stats.Fetched = len(items)

	_, span := tracing.GetTracer().Start(ctx, "digest.select")
	items = FilterWindow(items, now)
	stats.InWindow = len(items)
	metrics.RecordItemsDropped("window", stats.Fetched-stats.InWindow)

	stats.KeywordMatched = stats.InWindow
	if s.Options.KeywordFilter {
		items = NewKeywordFilter(s.Options.Keywords).Apply(items)
		stats.KeywordMatched = len(items)
		metrics.RecordItemsDropped("keyword", stats.InWindow-stats.KeywordMatched)
	}

	items = Dedupe(items)
	stats.Unique = len(items)
	metrics.RecordItemsDropped("duplicate", stats.KeywordMatched-stats.Unique)
	span.SetAttributes(
		attribute.Int("fetched", stats.Fetched),
		attribute.Int("unique", stats.Unique))
	span.End()

	if stats.Unique < s.minItems() {
		return nil, ErrInsufficientItems
	}

	ranked := s.Ranker(now).Rank(items)
	d := Assemble(ranked, s.Options.Cap, s.Options.Title, now)
	stats.DigestItems = d.Count()
	metrics.RecordDigestSize(d.Count())

	enricher := s.Enricher
	if enricher == nil {
		enricher = NewEnricher(nil, nil, 0, logging.FromContext(ctx))
	}
	enrichCtx, enrichSpan := tracing.GetTracer().Start(ctx, "digest.enrich")
	for i, r := range enricher.EnrichAll(enrichCtx, d.Items) {
		d.Items[i] = r.Item
		if r.Fallback() {
			stats.Fallbacks++
		}
	}
	enrichSpan.SetAttributes(attribute.Int("fallbacks", stats.Fallbacks))
	enrichSpan.End()

	return d, nil
}

// FetchAll reads every source in order. A failing source contributes no items
// and does not stop the others.
func (s *Service) FetchAll(ctx context.Context) []SourceResult {
	logger := logging.FromContext(ctx)
	ctx, span := tracing.GetTracer().Start(ctx, "digest.fetch")
	defer span.End()

	results := make([]SourceResult, 0, len(s.Sources))
	for _, src := range s.Sources {
		r := s.fetchOne(ctx, src)
		results = append(results, r)

		if r.Err != nil {
			metrics.RecordSourceFetchError(string(src.Kind))
			logger.Warn("failed to read source",
				slog.String("kind", string(src.Kind)),
				slog.String("target", src.Target),
				slog.Any("error", r.Err))
			continue
		}
		metrics.RecordSourceFetch(string(src.Kind), r.Duration, len(r.Items))
		logger.Info("source read completed",
			slog.String("kind", string(src.Kind)),
			slog.String("target", src.Target),
			slog.Int("items", len(r.Items)),
			slog.Duration("duration", r.Duration))
	}
	return results
}

func (s *Service) fetchOne(ctx context.Context, src Source) SourceResult {
	start := time.Now()
	reader, ok := s.Readers[src.Kind]
	if !ok {
		return SourceResult{Source: src, Err: fmt.Errorf("%w: %s", ErrUnknownSourceKind, src.Kind)}
	}
	items, err := reader.Read(ctx, src.Target)
	return SourceResult{Source: src, Items: items, Err: err, Duration: time.Since(start)}
}

func (s *Service) render(ctx context.Context, d *Digest) (string, error) {
	_, span := tracing.GetTracer().Start(ctx, "digest.render")
	defer span.End()
	html, err := s.Renderer.Render(d)
	if err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return html, nil
}

func (s *Service) send(ctx context.Context, d *Digest, html string) error {
	ctx, span := tracing.GetTracer().Start(ctx, "digest.send")
	defer span.End()
	return s.Sender.Send(ctx, Message{
		Subject:     d.Subject(),
		HTML:        html,
		PreviewText: d.PreviewText(),
		ArchiveName: d.ArchiveName(),
	})
}
