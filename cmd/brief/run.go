package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"daily-brief/internal/observability/tracing"
	"daily-brief/internal/usecase/digest"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Build, archive and send today's digest once",
	Long: `Fetches every configured source, keeps the last 24 hours of relevant items, ranks and
enriches them, writes OUTPUT_DIR/YYYY-MM-DD.html and sends the edition.

The command exits non-zero when rendering, archiving or delivery fails. A run with too few
items skips rendering and delivery and exits zero.`,
	RunE: runDigestCmd,
}

func init() {
	rootCmd.AddCommand(runCommand)
}

func runDigestCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.Setup()
	defer func() { _ = shutdownTracing(context.Background()) }()

	a, err := newApp(ctx, appOptions{registry: prometheus.DefaultRegisterer})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	stats, err := a.service.Run(ctx)
	printStats(cmd, stats)
	if err != nil {
		a.logger.Error("digest run failed", slog.Any("error", err))
		return err
	}
	return nil
}

func printStats(cmd *cobra.Command, stats *digest.RunStats) {
	if stats == nil {
		return
	}
	out := cmd.OutOrStdout()
	switch {
	case stats.Skipped:
		_, _ = fmt.Fprintf(out, "Skipped: only %d unique items after filtering\n", stats.Unique)
	case stats.Sent:
		_, _ = fmt.Fprintf(out, "Sent %d items (archive: %s) in %s\n",
			stats.DigestItems, stats.ArchivePath, stats.Duration.Round(time.Millisecond))
	case stats.SendSkipped:
		_, _ = fmt.Fprintf(out, "Not sent: delivery is not configured (%d items, archive: %s)\n",
			stats.DigestItems, stats.ArchivePath)
	default:
		_, _ = fmt.Fprintf(out, "Not sent (%d items, archive: %s)\n", stats.DigestItems, stats.ArchivePath)
	}
	if stats.SourceErrors > 0 {
		_, _ = fmt.Fprintf(out, "%d of %d sources failed\n", stats.SourceErrors, stats.Sources)
	}
	if stats.Fallbacks > 0 {
		_, _ = fmt.Fprintf(out, "%d items used the fallback summary\n", stats.Fallbacks)
	}
}
