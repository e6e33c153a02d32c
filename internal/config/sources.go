package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/usecase/digest"
)

// Sources is the operator-maintained source list.
//
//	rss_feeds:
//	  - https://news.sap.com/feed/
//	gdelt_queries:
//	  - '"SAP S/4HANA" OR "Oracle Fusion"'
//	keywords: [SAP, Oracle, iPaaS]
//	ranking:
//	  vendor_tokens: [sap, boomi]
type Sources struct {
	RSSFeeds     []string `yaml:"rss_feeds"`
	GDELTQueries []string `yaml:"gdelt_queries"`
	// Keywords replaces the default keyword filter when non-empty.
	Keywords []string `yaml:"keywords"`
	Ranking  Ranking  `yaml:"ranking"`
}

// Ranking overrides the token lists of the default scoring rules.
type Ranking struct {
	VendorTokens []string `yaml:"vendor_tokens"`
	PressTokens  []string `yaml:"press_tokens"`
	TitleSignals []string `yaml:"title_signals"`
}

// LoadSources reads and validates the YAML source list at path.
// The path comes from configuration, not from user input.
func LoadSources(path string) (*Sources, error) {
	// #nosec G304 -- path is operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var sources Sources
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}

	if err := sources.Validate(); err != nil {
		return nil, fmt.Errorf("sources file %s: %w", path, err)
	}
	return &sources, nil
}

// Validate checks every feed URL and query. An empty list is valid; the run
// then ends early with nothing to send.
func (s *Sources) Validate() error {
	var errs []error
	for i, u := range s.RSSFeeds {
		if err := entity.ValidateSourceURL(u); err != nil {
			errs = append(errs, fmt.Errorf("rss_feeds[%d]: %w", i, err))
		}
	}
	for i, q := range s.GDELTQueries {
		if err := entity.ValidateQuery(q); err != nil {
			errs = append(errs, fmt.Errorf("gdelt_queries[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Empty reports whether no feed or query is configured.
func (s *Sources) Empty() bool {
	return len(s.RSSFeeds)+len(s.GDELTQueries) == 0
}

// List returns the sources in file order, feeds before queries.
func (s *Sources) List() []digest.Source {
	out := make([]digest.Source, 0, len(s.RSSFeeds)+len(s.GDELTQueries))
	for _, u := range s.RSSFeeds {
		out = append(out, digest.Source{Kind: digest.SourceRSS, Target: strings.TrimSpace(u)})
	}
	for _, q := range s.GDELTQueries {
		out = append(out, digest.Source{Kind: digest.SourceGDELT, Target: strings.TrimSpace(q)})
	}
	return out
}

// Tokens returns the default ranking tokens with the file's overrides applied.
func (s *Sources) Tokens() digest.Tokens {
	return digest.DefaultTokens().Merge(digest.Tokens{
		Vendor:       lower(s.Ranking.VendorTokens),
		Press:        lower(s.Ranking.PressTokens),
		TitleSignals: lower(s.Ranking.TitleSignals),
	})
}

func lower(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
