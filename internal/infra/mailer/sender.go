package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"daily-brief/internal/observability/metrics"
	"daily-brief/internal/usecase/digest"
)

// SkipSender stands in when delivery is not configured. Send logs and returns
// ErrSendSkipped.
type SkipSender struct {
	Reason string
	logger *slog.Logger
}

func NewSkipSender(reason string, logger *slog.Logger) *SkipSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SkipSender{Reason: reason, logger: logger}
}

func (s *SkipSender) Send(ctx context.Context, msg digest.Message) error {
	metrics.RecordSend("skip", "skipped")
	s.logger.WarnContext(ctx, "skipping send",
		slog.String("reason", s.Reason),
		slog.String("subject", msg.Subject))
	return fmt.Errorf("%w: %s", ErrSendSkipped, s.Reason)
}

// NewSender selects the sender for cfg.Mode. Missing credentials, recipients
// or list id yield a SkipSender rather than an error.
func NewSender(cfg Config, logger *slog.Logger) (digest.Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mailer config: %w", err)
	}
	if missing := cfg.missing(); missing != "" {
		return NewSkipSender(fmt.Sprintf("%v: %s not set", ErrMissingCredentials, missing), logger), nil
	}

	switch cfg.Mode {
	case ModeCampaign:
		return NewCampaignSender(cfg, logger), nil
	default:
		return NewTransactionalSender(cfg, logger), nil
	}
}
