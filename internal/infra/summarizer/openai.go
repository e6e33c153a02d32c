package summarizer

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/usecase/digest"
)

// OpenAI summarizes items with the chat completions API.
type OpenAI struct {
	runner
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAI(cfg Config, logger *slog.Logger) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAI.BaseURL
	}

	o := &OpenAI{
		runner:      newRunner(TypeOpenAI, cfg.OpenAI.APIKey, cfg, circuitbreaker.OpenAIAPIConfig(), logger),
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.OpenAI.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
	}
	o.logger.Info("initialized summarizer",
		slog.String("provider", TypeOpenAI),
		slog.String("model", o.model))
	return o
}

func (o *OpenAI) Summarize(ctx context.Context, in digest.Input) (entity.Enrichment, error) {
	return o.run(ctx, in, o.complete)
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
