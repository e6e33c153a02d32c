package digest

import (
	"regexp"
	"strings"
	"time"

	"daily-brief/internal/domain/entity"
)

// Window is the recency horizon of a digest.
const Window = 24 * time.Hour

// DefaultKeywords is the topical allowlist applied when the keyword filter is on.
var DefaultKeywords = []string{
	"SAP", "S/4HANA", "Oracle", "Fusion", "middleware", "iPaaS",
	"EDI", "integration", "Dynamics 365", "supply chain",
}

// Within reports whether published lies inside the window ending at now.
// A zero timestamp is never within the window. Exactly Window old is accepted;
// timestamps in the future are accepted as well.
func Within(published, now time.Time) bool {
	if published.IsZero() {
		return false
	}
	return now.Sub(published.UTC()) <= Window
}

// FilterWindow keeps the items published within the window, preserving order.
func FilterWindow(items []entity.Item, now time.Time) []entity.Item {
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if Within(it.Published, now) {
			out = append(out, it)
		}
	}
	return out
}

// KeywordFilter matches items against a case-insensitive keyword alternation
// over the title and the raw snippet.
type KeywordFilter struct {
	re *regexp.Regexp
}

// NewKeywordFilter compiles the keyword list. An empty list falls back to DefaultKeywords.
func NewKeywordFilter(keywords []string) *KeywordFilter {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			quoted = append(quoted, regexp.QuoteMeta(k))
		}
	}
	return &KeywordFilter{re: regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)}
}

// Match reports whether the item mentions any keyword.
func (f *KeywordFilter) Match(it entity.Item) bool {
	return f.re.MatchString(it.Title + " " + it.SummaryRaw)
}

// Apply keeps the matching items, preserving order.
func (f *KeywordFilter) Apply(items []entity.Item) []entity.Item {
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
