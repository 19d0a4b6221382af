// Package sources implements the `sources` command: a plain listing of the
// configured registry.
package sources

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/tlegoff/municrawl/internal/crawl"
)

// ListAction prints every configured source in declaration order.
func ListAction(c *cli.Context) error {
	reg, err := crawl.LoadRegistry(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMETHOD\tEXPECTED\tURL")
	for _, s := range reg.Sources() {
		expected := "-"
		if s.ExpectedCount > 0 {
			expected = fmt.Sprintf("%d", s.ExpectedCount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.Method, expected, s.URL)
	}
	return tw.Flush()
}
