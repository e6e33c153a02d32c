package summarizer

import (
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

// Provider types accepted by SUMMARIZER_TYPE.
const (
	TypeOpenAI = "openai"
	TypeClaude = "claude"
	TypeGemini = "gemini"
	TypeNone   = "none"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-1.5-flash"

	defaultTimeout     = 60 * time.Second
	defaultMaxTokens   = 160
	defaultTemperature = 0.2
)

// ProviderConfig holds the credentials of one provider.
type ProviderConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the provider endpoint. Empty means the SDK default.
	BaseURL string
}

// Config selects and tunes the summarizer.
type Config struct {
	Type string

	OpenAI ProviderConfig
	Claude ProviderConfig
	Gemini ProviderConfig

	// Timeout bounds a single enrichment call.
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the OpenAI setup without credentials.
func DefaultConfig() Config {
	return Config{
		Type:        TypeOpenAI,
		OpenAI:      ProviderConfig{Model: defaultOpenAIModel},
		Claude:      ProviderConfig{Model: string(anthropic.ModelClaudeSonnet4_5_20250929)},
		Gemini:      ProviderConfig{Model: defaultGeminiModel},
		Timeout:     defaultTimeout,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}
}

// Provider returns the credentials of the selected type.
func (c Config) Provider() (ProviderConfig, bool) {
	switch c.Type {
	case TypeOpenAI:
		return c.OpenAI, true
	case TypeClaude:
		return c.Claude, true
	case TypeGemini:
		return c.Gemini, true
	default:
		return ProviderConfig{}, false
	}
}

// Validate checks the tuning values. A missing API key is not an error;
// it disables enrichment.
func (c Config) Validate() error {
	switch c.Type {
	case TypeOpenAI, TypeClaude, TypeGemini, TypeNone:
	default:
		return fmt.Errorf("unknown summarizer type %q", c.Type)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %v", c.Temperature)
	}
	if p, ok := c.Provider(); ok && p.Model == "" {
		return fmt.Errorf("model cannot be empty for %s", c.Type)
	}
	return nil
}

// Enabled reports whether enrichment will call a provider.
func (c Config) Enabled() bool {
	p, ok := c.Provider()
	return ok && p.APIKey != ""
}
