package scraper

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"daily-brief/internal/utils/text"
)

// CleanSnippet turns a feed description into plain text: markup is stripped,
// entities are decoded exactly once and whitespace is collapsed.
func CleanSnippet(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(html.UnescapeString(s))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return text.CollapseWhitespace(s)
	}
	doc.Find("script, style, noscript").Remove()
	return text.CollapseWhitespace(doc.Text())
}
