package summarizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/infra/summarizer"
	"daily-brief/internal/usecase/digest"
)

func TestBuildPrompt(t *testing.T) {
	prompt := summarizer.BuildPrompt(digest.Input{
		Title:   "SAP announces GA of Joule",
		URL:     "https://news.sap.com/joule",
		Snippet: "Joule is now generally available.",
	})

	assert.True(t, strings.HasPrefix(prompt, "Summarize the following news item in exactly two concise sentences."))
	assert.Contains(t, prompt, "'Why it matters:'")
	assert.Contains(t, prompt, "ERP/middleware")
	assert.Contains(t, prompt, "\nTitle: SAP announces GA of Joule\n")
	assert.Contains(t, prompt, "\nURL: https://news.sap.com/joule\n")
	assert.True(t, strings.HasSuffix(prompt, "\nSnippet: Joule is now generally available."))
}

func TestBuildPrompt_SnippetIsBounded(t *testing.T) {
	snippet := strings.Repeat("é", 2000)

	prompt := summarizer.BuildPrompt(digest.Input{Title: "t", URL: "u", Snippet: snippet})

	_, quoted, found := strings.Cut(prompt, "Snippet: ")
	assert.True(t, found)
	assert.Equal(t, 1200, len([]rune(quoted)))
}

func TestParseEnrichment(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  entity.Enrichment
	}{
		{
			name:  "bullet on its own line",
			reply: "SAP shipped Joule. It is GA today.\n- Why it matters: ERP teams get an assistant.",
			want:  entity.Enrichment{Summary: "SAP shipped Joule. It is GA today.", Why: "ERP teams get an assistant."},
		},
		{
			name:  "round bullet",
			reply: "One. Two.\n• Why it matters: integration backlog shrinks.\n",
			want:  entity.Enrichment{Summary: "One. Two.", Why: "integration backlog shrinks."},
		},
		{
			name:  "no marker",
			reply: "  Only a summary here.  ",
			want:  entity.Enrichment{Summary: "Only a summary here."},
		},
		{
			name:  "split on first marker only",
			reply: "A. B.\nWhy it matters: first. Why it matters: second.",
			want:  entity.Enrichment{Summary: "A. B.", Why: "first. Why it matters: second."},
		},
		{
			name:  "marker only",
			reply: "Why it matters: nothing else",
			want:  entity.Enrichment{Summary: "", Why: "nothing else"},
		},
		{
			name:  "empty",
			reply: "",
			want:  entity.Enrichment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarizer.ParseEnrichment(tt.reply))
		})
	}
}
