package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/usecase/digest"
)

// Gemini summarizes items with the Google Generative AI API.
type Gemini struct {
	runner
	client   *genai.Client
	model    string
	generate func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
}

func NewGemini(ctx context.Context, cfg Config, logger *slog.Logger) (*Gemini, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.Gemini.APIKey)}
	if cfg.Gemini.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.Gemini.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", SanitizeError(err, cfg.Gemini.APIKey))
	}

	model := client.GenerativeModel(cfg.Gemini.Model)
	model.SetTemperature(float32(cfg.Temperature))
	model.SetMaxOutputTokens(int32(cfg.MaxTokens))

	g := &Gemini{
		runner: newRunner(TypeGemini, cfg.Gemini.APIKey, cfg, circuitbreaker.GeminiAPIConfig(), logger),
		client: client,
		model:  cfg.Gemini.Model,
		generate: func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
			return model.GenerateContent(ctx, genai.Text(prompt))
		},
	}
	g.logger.Info("initialized summarizer",
		slog.String("provider", TypeGemini),
		slog.String("model", g.model))
	return g, nil
}

func (g *Gemini) Summarize(ctx context.Context, in digest.Input) (entity.Enrichment, error) {
	return g.run(ctx, in, g.complete)
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *Gemini) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	return extractText(resp)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
