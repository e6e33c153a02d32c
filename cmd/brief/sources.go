package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"daily-brief/internal/usecase/digest"
)

var sourcesCommand = &cobra.Command{
	Use:   "sources",
	Short: "Read every configured source once and report its health",
	Long: `Reads each feed and GDELT query from SOURCES_FILE with the same readers and timeouts
as a digest run, then prints one line per source. Nothing is filtered, ranked or sent.`,
	RunE: sourcesCmd,
}

var sourcesJSON bool

func init() {
	sourcesCommand.Flags().BoolVar(&sourcesJSON, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(sourcesCommand)
}

// Source health states.
const (
	statusOK    = "OK"
	statusEmpty = "EMPTY"
	statusStale = "STALE"
	statusError = "ERROR"
)

// SourceDiagnostic is the health of one source.
type SourceDiagnostic struct {
	Kind       string `json:"kind"`
	Target     string `json:"target"`
	Status     string `json:"status"`
	ItemCount  int    `json:"item_count"`
	InWindow   int    `json:"in_window"`
	LatestDate string `json:"latest_date,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func sourcesCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appOptions{registry: prometheus.NewRegistry(), logOut: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	diagnostics := diagnoseSources(a.service.FetchAll(ctx), time.Now())
	if sourcesJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(diagnostics)
	}
	writeSourceReport(cmd.OutOrStdout(), diagnostics)
	return nil
}

// diagnoseSources classifies each read: ERROR when the reader failed, EMPTY
// without items, STALE when nothing falls inside the digest window.
func diagnoseSources(results []digest.SourceResult, now time.Time) []SourceDiagnostic {
	out := make([]SourceDiagnostic, 0, len(results))
	for _, r := range results {
		d := SourceDiagnostic{
			Kind:       string(r.Source.Kind),
			Target:     r.Source.Target,
			ItemCount:  len(r.Items),
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			d.Status = statusError
			d.Error = r.Err.Error()
			out = append(out, d)
			continue
		}

		var latest time.Time
		for _, it := range r.Items {
			if digest.Within(it.Published, now) {
				d.InWindow++
			}
			if it.Published.After(latest) {
				latest = it.Published
			}
		}
		if !latest.IsZero() {
			d.LatestDate = latest.UTC().Format(time.RFC3339)
		}

		switch {
		case d.ItemCount == 0:
			d.Status = statusEmpty
		case d.InWindow == 0:
			d.Status = statusStale
		default:
			d.Status = statusOK
		}
		out = append(out, d)
	}
	return out
}

const targetWidth = 56

func writeSourceReport(w io.Writer, diagnostics []SourceDiagnostic) {
	counts := make(map[string]int)
	for _, d := range diagnostics {
		counts[d.Status]++
	}

	header := []string{
		runewidth.FillRight("Status", 6),
		runewidth.FillRight("Kind", 5),
		runewidth.FillLeft("Items", 5),
		runewidth.FillLeft("24h", 4),
		runewidth.FillLeft("ms", 6),
		"Target",
	}
	_, _ = fmt.Fprintln(w, strings.Join(header, "  "))
	for _, d := range diagnostics {
		row := []string{
			runewidth.FillRight(d.Status, 6),
			runewidth.FillRight(d.Kind, 5),
			runewidth.FillLeft(strconv.Itoa(d.ItemCount), 5),
			runewidth.FillLeft(strconv.Itoa(d.InWindow), 4),
			runewidth.FillLeft(strconv.FormatInt(d.DurationMS, 10), 6),
			runewidth.Truncate(d.Target, targetWidth, ellipsis),
		}
		_, _ = fmt.Fprintln(w, strings.Join(row, "  "))
		if d.Error != "" {
			_, _ = fmt.Fprintf(w, "        %s\n", d.Error)
		}
	}
	_, _ = fmt.Fprintf(w, "\n%d sources: %d ok, %d stale, %d empty, %d failed\n",
		len(diagnostics), counts[statusOK], counts[statusStale], counts[statusEmpty], counts[statusError])
}
