package scraper

import (
	"fmt"
	"time"
)

const (
	userAgent = "DailyBriefBot/1.0"

	// DefaultGDELTBaseURL is the GDELT 2.0 DOC API endpoint.
	DefaultGDELTBaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

	// maxBodySize caps feed and API responses.
	maxBodySize = 10 * 1024 * 1024
)

// Config controls the source readers.
type Config struct {
	// Timeout bounds one source read.
	Timeout time.Duration
	// GDELTBaseURL is overridable for tests.
	GDELTBaseURL string
	// GDELTMaxRecords is the maxrecords parameter of a GDELT query.
	GDELTMaxRecords int
}

func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		GDELTBaseURL:    DefaultGDELTBaseURL,
		GDELTMaxRecords: 75,
	}
}

func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.GDELTBaseURL == "" {
		return fmt.Errorf("gdelt base url is required")
	}
	if c.GDELTMaxRecords < 1 || c.GDELTMaxRecords > 250 {
		return fmt.Errorf("gdelt max records must be between 1 and 250, got %d", c.GDELTMaxRecords)
	}
	return nil
}
