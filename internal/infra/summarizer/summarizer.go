// Package summarizer enriches digest items through an LLM provider.
//
// Every provider shares one prompt, one reply parser and one call shape:
// a single attempt through the provider's circuit breaker, bounded by the
// configured timeout. Failures are returned to the caller, which applies the
// deterministic fallback.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/usecase/digest"
	"daily-brief/internal/utils/text"
)

// ErrEmptyResponse is returned when a provider replies without text.
var ErrEmptyResponse = errors.New("summarizer: empty response")

// completeFunc sends one prompt and returns the raw reply text.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// runner holds what every provider shares.
type runner struct {
	provider string
	apiKey   string
	timeout  time.Duration
	cb       *circuitbreaker.CircuitBreaker
	metrics  MetricsRecorder
	logger   *slog.Logger
}

func newRunner(provider, apiKey string, cfg Config, cbCfg circuitbreaker.Config, logger *slog.Logger) runner {
	if logger == nil {
		logger = slog.Default()
	}
	return runner{
		provider: provider,
		apiKey:   apiKey,
		timeout:  cfg.Timeout,
		cb:       circuitbreaker.New(cbCfg),
		metrics:  NewPrometheusMetrics(),
		logger:   logger,
	}
}

func (r *runner) run(ctx context.Context, in digest.Input, complete completeFunc) (entity.Enrichment, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	requestID := uuid.New().String()
	prompt := BuildPrompt(in)
	start := time.Now()

	reply, err := circuitbreaker.Do(r.cb, func() (string, error) {
		return complete(ctx, prompt)
	})
	duration := time.Since(start)
	r.metrics.RecordDuration(r.provider, duration)

	if err != nil {
		err = SanitizeError(err, r.apiKey)
		status := "failure"
		if circuitbreaker.IsRejected(err) {
			status = "rejected"
			r.logger.WarnContext(ctx, "summarizer circuit breaker open, request rejected",
				slog.String("provider", r.provider),
				slog.String("request_id", requestID),
				slog.String("state", r.cb.State().String()))
		} else {
			r.logger.WarnContext(ctx, "summarization failed",
				slog.String("provider", r.provider),
				slog.String("request_id", requestID),
				slog.Duration("duration", duration),
				slog.Any("error", err))
		}
		r.metrics.RecordRequest(r.provider, status)
		return entity.Enrichment{}, fmt.Errorf("%s summarize: %w", r.provider, err)
	}

	enr := ParseEnrichment(reply)
	if enr.Summary == "" {
		r.metrics.RecordRequest(r.provider, "empty")
		return entity.Enrichment{}, fmt.Errorf("%s summarize: %w", r.provider, ErrEmptyResponse)
	}

	length := text.CountRunes(enr.Summary)
	r.metrics.RecordRequest(r.provider, "success")
	r.metrics.RecordLength(r.provider, length)
	r.logger.DebugContext(ctx, "summarization completed",
		slog.String("provider", r.provider),
		slog.String("request_id", requestID),
		slog.Int("summary_length", length),
		slog.Bool("has_why", enr.Why != ""),
		slog.Duration("duration", duration))

	return enr, nil
}

// New builds the configured summarizer. It returns a nil Summarizer when the
// type is "none" or the selected provider has no API key; callers then use
// the disabled fallback.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (digest.Summarizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid summarizer config: %w", err)
	}
	if !cfg.Enabled() {
		return nil, nil
	}

	switch cfg.Type {
	case TypeOpenAI:
		return NewOpenAI(cfg, logger), nil
	case TypeClaude:
		return NewClaude(cfg, logger), nil
	case TypeGemini:
		g, err := NewGemini(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, nil
}

var keyPattern = regexp.MustCompile(`(sk-[A-Za-z0-9_\-]{8,}|AIza[0-9A-Za-z_\-]{20,})`)

type sanitizedError struct {
	msg string
	err error
}

func (e *sanitizedError) Error() string { return e.msg }
func (e *sanitizedError) Unwrap() error { return e.err }

// SanitizeError masks API keys in an error message. The original error
// stays reachable through errors.Is and errors.As.
func SanitizeError(err error, secrets ...string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	masked := msg
	for _, s := range secrets {
		if s != "" {
			masked = strings.ReplaceAll(masked, s, "****")
		}
	}
	masked = keyPattern.ReplaceAllString(masked, "****")
	if masked == msg {
		return err
	}
	return &sanitizedError{msg: masked, err: err}
}
