package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// maxURLLength defines the maximum allowed length for source URLs.
const maxURLLength = 2048

// ValidateSourceURL checks that a configured feed URL is well-formed and uses
// http or https. It does not resolve the host; feeds are operator-supplied.
func ValidateSourceURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: fmt.Sprintf("parse URL: %v", err)}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}

	return nil
}

// ValidateQuery checks a news-search query string.
func ValidateQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return &ValidationError{Field: "query", Message: "query is required"}
	}
	return nil
}
