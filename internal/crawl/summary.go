package crawl

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tlegoff/municrawl/models"
)

// PrintSummary writes the consolidated per-source table. It is printed even
// when some sources failed entirely; partial progress is still progress.
func PrintSummary(w io.Writer, summary *models.RunSummary) {
	fmt.Fprintf(w, "\nRun summary (%s, mode=%s)\n", summary.Selector, summary.Mode)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tATTEMPTED\tSUCCEEDED\tFAILED")
	for _, name := range summary.Order {
		stats := summary.PerSource[name]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", name, stats.Attempted, stats.Succeeded, stats.Failed)
	}
	totals := summary.Totals()
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%d\n", totals.Attempted, totals.Succeeded, totals.Failed)
	tw.Flush()

	if len(summary.Errors) > 0 {
		fmt.Fprintf(w, "\n%d page(s) failed; see each source's errors.log\n", len(summary.Errors))
	}
}

// ExitCode maps a completed run to its process status: 0 as long as the run
// captured some content (or had nothing to fail), 1 when every attempted
// source failed outright.
func ExitCode(summary *models.RunSummary) int {
	if summary.Viable() {
		return 0
	}
	return 1
}
