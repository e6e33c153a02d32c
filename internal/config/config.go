// Package config assembles the immutable run configuration from the
// environment. It is loaded once by the command and handed to every
// component; nothing below cmd reads the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"daily-brief/internal/infra/fetcher"
	"daily-brief/internal/infra/mailer"
	"daily-brief/internal/infra/scraper"
	"daily-brief/internal/infra/summarizer"
	"daily-brief/internal/infra/worker"
	"daily-brief/internal/observability/logging"
	pkgconfig "daily-brief/internal/pkg/config"
)

// Brief holds the editorial settings of an edition.
type Brief struct {
	Title string `validate:"required,max=200"`
	// MaxItems of 0 disables the cap; other values are clamped to [10, 20].
	MaxItems      int `validate:"min=0,max=1000"`
	MinItems      int `validate:"min=1"`
	KeywordFilter bool
}

// Config is the full configuration of a run.
type Config struct {
	Brief Brief

	SourcesFile    string `validate:"required"`
	OutputDir      string `validate:"required"`
	ArchiveBaseURL string `validate:"omitempty,url"`

	Log logging.Options

	Scraper    scraper.Config
	Fetcher    fetcher.ContentFetchConfig
	Summarizer summarizer.Config
	Mailer     mailer.Config
	Worker     worker.Config
}

const (
	defaultTitle       = "Daily ERP & Middleware Brief"
	defaultMaxItems    = 15
	defaultSourcesFile = "sources.yml"
	defaultOutputDir   = "out"
)

var validate = validator.New()

// Load builds the configuration from lookup (os.LookupEnv when nil).
// Values that do not parse fall back to their defaults and are returned as
// warnings; values that parse but are unusable, such as a malformed
// recipient address, fail the load.
func Load(lookup pkgconfig.LookupFunc, metrics *pkgconfig.Metrics) (Config, []string, error) {
	l := pkgconfig.NewLoader(lookup, metrics)
	defer l.Finish()

	cfg := Config{
		Brief: Brief{
			Title:         l.Raw("BRIEF_TITLE", defaultTitle),
			MaxItems:      l.Int("MAX_ITEMS", defaultMaxItems, nonNegative),
			MinItems:      l.Int("MIN_ITEMS_TO_SEND", 1, nil),
			KeywordFilter: l.Bool("KEYWORD_FILTER", true),
		},
		SourcesFile:    l.Raw("SOURCES_FILE", defaultSourcesFile),
		OutputDir:      l.Raw("OUTPUT_DIR", defaultOutputDir),
		ArchiveBaseURL: l.Raw("ARCHIVE_BASE_URL", ""),
		Log: logging.Options{
			Level:  l.String("LOG_LEVEL", "info", pkgconfig.OneOf("debug", "info", "warn", "warning", "error")),
			Format: l.String("LOG_FORMAT", "json", pkgconfig.OneOf("json", "text")),
		},
		Scraper:    loadScraper(l),
		Fetcher:    loadFetcher(l),
		Summarizer: loadSummarizer(l),
		Mailer:     loadMailer(l),
		Worker:     worker.LoadConfig(l),
	}
	cfg.Brief.MinItems = max(cfg.Brief.MinItems, 1)

	if err := cfg.Validate(); err != nil {
		return Config{}, l.Warnings(), err
	}
	return cfg, l.Warnings(), nil
}

// Validate runs the tag rules and each component's own checks.
func (c Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		errs = append(errs, err)
	}
	if err := validate.Var(c.Mailer.Recipients, "dive,email"); err != nil {
		errs = append(errs, fmt.Errorf("RECIPIENTS: %w", err))
	}
	if err := validate.Var(c.Mailer.UnsubscribeURL, "required,url"); err != nil {
		errs = append(errs, fmt.Errorf("UNSUBSCRIBE_URL: %w", err))
	}
	for _, part := range []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"scraper", c.Scraper},
		{"fetcher", c.Fetcher},
		{"summarizer", c.Summarizer},
		{"mailer", c.Mailer},
		{"worker", c.Worker},
	} {
		if err := part.v.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", part.name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func nonNegative(v int) error {
	if v < 0 {
		return fmt.Errorf("must be >= 0")
	}
	return nil
}

func loadScraper(l *pkgconfig.Loader) scraper.Config {
	def := scraper.DefaultConfig()
	return scraper.Config{
		Timeout:      l.Duration("HTTP_TIMEOUT", def.Timeout, pkgconfig.ValidatePositiveDuration),
		GDELTBaseURL: l.Raw("GDELT_BASE_URL", def.GDELTBaseURL),
		GDELTMaxRecords: l.Int("GDELT_MAX_RECORDS", def.GDELTMaxRecords, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 1, 250)
		}),
	}
}

func loadFetcher(l *pkgconfig.Loader) fetcher.ContentFetchConfig {
	def := fetcher.DefaultConfig()
	return fetcher.ContentFetchConfig{
		Enabled:        l.Bool("CONTENT_FETCH_ENABLED", def.Enabled),
		Threshold:      l.Int("CONTENT_FETCH_THRESHOLD", def.Threshold, nonNegative),
		Timeout:        l.Duration("CONTENT_FETCH_TIMEOUT", def.Timeout, pkgconfig.ValidatePositiveDuration),
		MaxBodySize:    int64(l.Int("CONTENT_FETCH_MAX_BODY_SIZE", int(def.MaxBodySize), positive)),
		MaxRedirects:   l.Int("CONTENT_FETCH_MAX_REDIRECTS", def.MaxRedirects, nonNegative),
		DenyPrivateIPs: l.Bool("CONTENT_FETCH_DENY_PRIVATE_IPS", def.DenyPrivateIPs),
	}
}

func loadSummarizer(l *pkgconfig.Loader) summarizer.Config {
	def := summarizer.DefaultConfig()
	return summarizer.Config{
		Type: strings.ToLower(l.String("SUMMARIZER_TYPE", def.Type,
			pkgconfig.OneOf(summarizer.TypeOpenAI, summarizer.TypeClaude, summarizer.TypeGemini, summarizer.TypeNone))),
		OpenAI: summarizer.ProviderConfig{
			APIKey:  l.Raw("OPENAI_API_KEY", ""),
			Model:   l.Raw("OPENAI_MODEL", def.OpenAI.Model),
			BaseURL: l.Raw("OPENAI_BASE_URL", ""),
		},
		Claude: summarizer.ProviderConfig{
			APIKey:  l.Raw("ANTHROPIC_API_KEY", ""),
			Model:   l.Raw("CLAUDE_MODEL", def.Claude.Model),
			BaseURL: l.Raw("ANTHROPIC_BASE_URL", ""),
		},
		Gemini: summarizer.ProviderConfig{
			APIKey: l.Raw("GEMINI_API_KEY", ""),
			Model:  l.Raw("GEMINI_MODEL", def.Gemini.Model),
		},
		Timeout:     l.Duration("ENRICH_TIMEOUT", def.Timeout, pkgconfig.ValidatePositiveDuration),
		MaxTokens:   def.MaxTokens,
		Temperature: def.Temperature,
	}
}

func loadMailer(l *pkgconfig.Loader) mailer.Config {
	def := mailer.DefaultConfig()
	return mailer.Config{
		APIKey:  l.Raw("BREVO_API_KEY", ""),
		BaseURL: l.Raw("BREVO_BASE_URL", def.BaseURL),
		Mode: strings.ToLower(l.String("DELIVERY_MODE", def.Mode,
			pkgconfig.OneOf(mailer.ModeTransactional, mailer.ModeCampaign))),
		Recipients:     l.List("RECIPIENTS", nil),
		ListID:         int64(l.Int("BREVO_LIST_ID", 0, nonNegative)),
		SenderName:     l.Raw("SENDER_NAME", def.SenderName),
		SenderEmail:    l.Raw("SENDER_EMAIL", def.SenderEmail),
		UnsubscribeURL: l.Raw("UNSUBSCRIBE_URL", def.UnsubscribeURL),
		Timeout:        l.Duration("BREVO_TIMEOUT", def.Timeout, pkgconfig.ValidatePositiveDuration),
	}
}

func positive(v int) error {
	if v <= 0 {
		return fmt.Errorf("must be > 0")
	}
	return nil
}
