package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-runewidth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"daily-brief/internal/observability/tracing"
	"daily-brief/internal/usecase/digest"
)

var previewCommand = &cobra.Command{
	Use:   "preview",
	Short: "Print today's ranked and enriched digest without archiving or sending",
	Long: `Runs the pipeline up to enrichment and prints the edition as a table.
Nothing is archived or sent. Use --html to also write the rendered email to a file.`,
	RunE: previewCmd,
}

var (
	previewDetails    bool
	previewTitleWidth int
	previewHTMLPath   string
)

func init() {
	previewCommand.Flags().BoolVarP(&previewDetails, "details", "d", false, "Print summary, why-it-matters and score breakdown under each row")
	previewCommand.Flags().IntVar(&previewTitleWidth, "title-width", 60, "Display width of the title column")
	previewCommand.Flags().StringVar(&previewHTMLPath, "html", "", "Write the rendered HTML to this path")

	rootCmd.AddCommand(previewCommand)
}

func previewCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.Setup()
	defer func() { _ = shutdownTracing(context.Background()) }()

	a, err := newApp(ctx, appOptions{registry: prometheus.NewRegistry(), logOut: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	d, stats, err := a.service.Preview(ctx)
	if errors.Is(err, digest.ErrInsufficientItems) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Not enough items: %d unique after filtering, %d required\n",
			stats.Unique, max(1, a.cfg.Brief.MinItems))
		return nil
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s\n%s\n\n", d.Subject(), d.PreviewText())
	writeTable(out, d, a.service.Ranker(d.Date), tableOptions{
		titleWidth: previewTitleWidth,
		details:    previewDetails,
	})
	_, _ = fmt.Fprintf(out, "\n%d sources (%d failed), %d fetched, %d in window, %d unique, %d fallbacks\n",
		stats.Sources, stats.SourceErrors, stats.Fetched, stats.InWindow, stats.Unique, stats.Fallbacks)

	if previewHTMLPath != "" {
		html, err := a.renderer.Render(d)
		if err != nil {
			return err
		}
		if err := os.WriteFile(previewHTMLPath, []byte(html), 0o600); err != nil {
			return fmt.Errorf("write preview html: %w", err)
		}
		_, _ = fmt.Fprintf(out, "HTML written to %s\n", previewHTMLPath)
	}
	return nil
}

type tableOptions struct {
	titleWidth int
	details    bool
}

const (
	sourceWidth    = 24
	publishedWidth = len("Jan 02, 15:04 UTC")
	ellipsis       = "…"
)

// writeTable prints one row per digest item. Columns are padded by display
// width so wide runes in titles keep the table aligned.
func writeTable(w io.Writer, d *digest.Digest, ranker *digest.Ranker, opts tableOptions) {
	titleWidth := max(opts.titleWidth, 10)
	header := []string{
		runewidth.FillLeft("#", 3),
		runewidth.FillLeft("Score", 6),
		runewidth.FillRight("Source", sourceWidth),
		runewidth.FillRight("Published", publishedWidth),
		"Title",
	}
	_, _ = fmt.Fprintln(w, strings.Join(header, "  "))
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 3+6+sourceWidth+publishedWidth+titleWidth+8))

	for i, it := range d.Items {
		if i == digest.TopCount {
			_, _ = fmt.Fprintln(w, strings.Repeat("·", 3+6+sourceWidth+publishedWidth+titleWidth+8))
		}
		row := []string{
			runewidth.FillLeft(strconv.Itoa(i+1), 3),
			runewidth.FillLeft(strconv.FormatFloat(ranker.Score(it), 'f', 2, 64), 6),
			runewidth.FillRight(runewidth.Truncate(it.Source, sourceWidth, ellipsis), sourceWidth),
			runewidth.FillRight(it.PublishedHuman, publishedWidth),
			runewidth.Truncate(it.Title, titleWidth, ellipsis),
		}
		_, _ = fmt.Fprintln(w, strings.Join(row, "  "))

		if !opts.details {
			continue
		}
		indent := strings.Repeat(" ", 5)
		_, _ = fmt.Fprintf(w, "%s%s\n", indent, it.URL)
		if it.Summary != "" {
			_, _ = fmt.Fprintf(w, "%s%s\n", indent, it.Summary)
		}
		if it.Why != "" {
			_, _ = fmt.Fprintf(w, "%sWhy it matters: %s\n", indent, it.Why)
		}
		parts := make([]string, 0, 4)
		for _, rs := range ranker.Breakdown(it) {
			parts = append(parts, fmt.Sprintf("%s=%.2f", rs.Rule, rs.Score))
		}
		_, _ = fmt.Fprintf(w, "%s[%s]\n", indent, strings.Join(parts, " "))
	}
}
