// Package history implements the `runs` command: a listing of past crawl
// invocations from the local run-history database.
package history

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tlegoff/municrawl/pkg/db"
)

// RunsAction prints the most recent runs, newest first, or the per-source
// breakdown of a single run when --run is given.
func RunsAction(c *cli.Context) error {
	baseDir := c.String("output-dir")

	database, err := db.Open(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: no run history at %s: %v\n", baseDir, err)
		os.Exit(2)
	}
	defer database.Close()

	if c.IsSet("run") {
		return showRun(database, int64(c.Int("run")))
	}

	records, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	if len(records) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tSELECTOR\tMODE\tATTEMPTED\tSUCCEEDED\tFAILED\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.RunID, r.StartedAt.Format(time.RFC3339), r.Selector, r.Mode,
			r.Attempted, r.Succeeded, r.Failed, r.Status)
	}
	return tw.Flush()
}

// showRun prints one run's per-source counts.
func showRun(database *db.DB, runID int64) error {
	results, err := database.SourceResults(runID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
	if len(results) == 0 {
		fmt.Printf("No sources recorded for run %d\n", runID)
		return nil
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tATTEMPTED\tSUCCEEDED\tFAILED")
	for _, name := range names {
		stats := results[name]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", name, stats.Attempted, stats.Succeeded, stats.Failed)
	}
	return tw.Flush()
}
