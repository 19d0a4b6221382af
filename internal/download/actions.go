package download

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tlegoff/municrawl/internal/crawl"
)

// DownloadAction is the entry point for `municrawl download`.
func DownloadAction(c *cli.Context) error {
	logger := crawl.NewLogger(c.Bool("quiet"))

	reg, err := crawl.LoadRegistry(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	sources, err := reg.Resolve(c.String("source"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	downloader := NewDownloader(
		time.Duration(c.Int("timeout"))*time.Second,
		c.Duration("delay"),
	)

	baseDir := c.String("output-dir")
	anyFailed := false
	for _, source := range sources {
		sourceDir := source.ResolveOutputDir(baseDir)
		logger.Info("Downloading PDFs", "source", source.Name, "dir", sourceDir)

		summary, err := downloader.Run(sourceDir)
		if err != nil {
			logger.Error("Download pass failed", "source", source.Name, "error", err)
			anyFailed = true
			continue
		}
		fmt.Printf("%s: %d downloaded, %d skipped (exist), %d failed\n",
			source.Name, summary.Downloaded, summary.Skipped, summary.Failed)
		if summary.Failed > 0 {
			fmt.Printf("  failures logged to %s/%s\n", sourceDir, ErrorFileName)
		}
	}

	if anyFailed {
		os.Exit(1)
	}
	return nil
}
