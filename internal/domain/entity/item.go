// Package entity defines the core domain types of the digest pipeline.
// An Item is one news entry as produced by a source reader; later stages only
// filter, reorder or annotate items, they never rewrite the fields a reader set.
package entity

import (
	"strings"
	"time"
)

// MaxSnippetRunes bounds SummaryRaw.
const MaxSnippetRunes = 1500

// Item represents a single news entry flowing through the pipeline.
type Item struct {
	Title string
	URL   string
	// Published is always UTC. The zero value means the source gave no timestamp.
	Published time.Time
	Source    string
	// SummaryRaw is the HTML-unescaped source snippet, at most MaxSnippetRunes runes.
	SummaryRaw string

	// Set by enrichment.
	Summary string
	Why     string

	// Set by the assembler.
	PublishedHuman string
}

// Enrichment is the summarizer output for one item.
type Enrichment struct {
	Summary string
	Why     string
}

// NewItem builds a normalized Item. The snippet must already be plain text;
// it is bounded but not unescaped. The timestamp is converted to UTC.
func NewItem(title, rawURL, source, snippet string, published time.Time) Item {
	it := Item{
		Title:      strings.TrimSpace(title),
		URL:        strings.TrimSpace(rawURL),
		Source:     strings.TrimSpace(source),
		SummaryRaw: TruncateRunes(strings.TrimSpace(snippet), MaxSnippetRunes),
	}
	if !published.IsZero() {
		it.Published = published.UTC()
	}
	return it
}

// HasPublished reports whether the item carries a publication timestamp.
func (i Item) HasPublished() bool {
	return !i.Published.IsZero()
}

// DedupKey returns the URL cut at the first '?' and lowercased.
// Fragments and trailing slashes are deliberately left alone.
func (i Item) DedupKey() string {
	u := i.URL
	if idx := strings.IndexByte(u, '?'); idx >= 0 {
		u = u[:idx]
	}
	return strings.ToLower(u)
}

// WithEnrichment returns a copy of the item carrying the given summary fields.
func (i Item) WithEnrichment(e Enrichment) Item {
	i.Summary = e.Summary
	i.Why = e.Why
	return i
}

// TruncateRunes returns at most n runes of s.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for idx := range s {
		if count == n {
			return s[:idx]
		}
		count++
	}
	return s
}
