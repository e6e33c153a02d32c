package fetcher

import (
	"fmt"
	"time"
)

// ContentFetchConfig controls article downloads used to enrich summarizer input.
type ContentFetchConfig struct {
	// Enabled turns the fetcher on. Off by default.
	Enabled bool

	// Threshold is the snippet length in runes under which the full article
	// is fetched.
	Threshold int

	// Timeout bounds one fetch including redirects.
	Timeout time.Duration

	// MaxBodySize caps the downloaded HTML in bytes.
	MaxBodySize int64

	// MaxRedirects caps the redirect chain.
	MaxRedirects int

	// DenyPrivateIPs rejects hosts that resolve to internal addresses,
	// including redirect targets.
	DenyPrivateIPs bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        false,
		Threshold:      1500,
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks the bounds of every field.
func (c ContentFetchConfig) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	const minBody, maxBody = int64(1024), int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBody || c.MaxBodySize > maxBody {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBody, maxBody, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}
