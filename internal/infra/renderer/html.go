// Package renderer turns an assembled digest into the HTML email body and
// stores each edition in a dated archive file.
package renderer

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/usecase/digest"
)

//go:embed templates/email.html.tmpl
var templateFS embed.FS

// Config carries the identity and links shown in every edition.
type Config struct {
	SenderName     string
	SenderEmail    string
	UnsubscribeURL string
	// ArchiveBaseURL is the public location of the archive directory.
	// Empty disables the view-in-browser link.
	ArchiveBaseURL string
}

// Page is the data the email template is executed with.
type Page struct {
	Subject     string
	Title       string
	LongDate    string
	PreviewText string
	Items       []entity.Item
	Top         []entity.Item
	Rest        []entity.Item

	SenderName     string
	SenderEmail    string
	UnsubscribeURL string
	ViewURL        string
}

// HTMLRenderer renders digests with the embedded email template.
type HTMLRenderer struct {
	config Config
	tmpl   *template.Template
}

func NewHTMLRenderer(cfg Config) (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/email.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}
	return &HTMLRenderer{config: cfg, tmpl: tmpl}, nil
}

// NewPage builds the template data for d.
func (r *HTMLRenderer) NewPage(d *digest.Digest) Page {
	p := Page{
		Subject:        d.Subject(),
		Title:          d.Title,
		LongDate:       d.LongDate(),
		PreviewText:    d.PreviewText(),
		Items:          d.Items,
		Top:            d.Top(),
		Rest:           d.Rest(),
		SenderName:     r.config.SenderName,
		SenderEmail:    r.config.SenderEmail,
		UnsubscribeURL: r.config.UnsubscribeURL,
	}
	if base := strings.TrimRight(r.config.ArchiveBaseURL, "/"); base != "" {
		p.ViewURL = base + "/" + d.ArchiveName() + archiveExt
	}
	return p
}

// Render executes the template. Field values are HTML-escaped.
func (r *HTMLRenderer) Render(d *digest.Digest) (string, error) {
	var b strings.Builder
	if err := r.tmpl.Execute(&b, r.NewPage(d)); err != nil {
		return "", fmt.Errorf("execute email template: %w", err)
	}
	return b.String(), nil
}
