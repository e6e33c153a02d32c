package summarizer

import (
	"fmt"
	"strings"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/usecase/digest"
)

const (
	// promptSnippetRunes bounds the snippet quoted in a prompt.
	promptSnippetRunes = 1200

	whyMarker = "Why it matters:"
)

// BuildPrompt renders the shared instruction for every provider.
func BuildPrompt(in digest.Input) string {
	return fmt.Sprintf(`Summarize the following news item in exactly two concise sentences. Then add one bullet that starts with '%s' focused on ERP/middleware pros.
Title: %s
URL: %s
Snippet: %s`, whyMarker, in.Title, in.URL, entity.TruncateRunes(in.Snippet, promptSnippetRunes))
}

// ParseEnrichment splits a model reply on the first "Why it matters:".
// Without the marker the whole reply is the summary and why is empty.
func ParseEnrichment(reply string) entity.Enrichment {
	reply = strings.TrimSpace(reply)
	summary, why, found := strings.Cut(reply, whyMarker)

	summary = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(summary), "-•"))
	if !found {
		return entity.Enrichment{Summary: summary}
	}
	return entity.Enrichment{
		Summary: summary,
		Why:     strings.Trim(why, " -•\n"),
	}
}
