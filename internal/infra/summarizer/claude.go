package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/usecase/digest"
)

// Claude summarizes items with the Anthropic Messages API.
type Claude struct {
	runner
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

func NewClaude(cfg Config, logger *slog.Logger) *Claude {
	// The SDK retries by default; enrichment is a single attempt.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.Claude.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Claude.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Claude.BaseURL))
	}

	c := &Claude{
		runner:      newRunner(TypeClaude, cfg.Claude.APIKey, cfg, circuitbreaker.ClaudeAPIConfig(), logger),
		client:      anthropic.NewClient(opts...),
		model:       cfg.Claude.Model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}
	c.logger.Info("initialized summarizer",
		slog.String("provider", TypeClaude),
		slog.String("model", c.model))
	return c
}

func (c *Claude) Summarize(ctx context.Context, in digest.Input) (entity.Enrichment, error) {
	return c.run(ctx, in, c.complete)
}

func (c *Claude) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
