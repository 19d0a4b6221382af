package extract

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tlegoff/municrawl/internal/crawl"
)

// ExtractAction is the entry point for `municrawl extract`. It scans each
// selected source's saved artifacts and writes the PDF download manifest.
func ExtractAction(c *cli.Context) error {
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

	baseDir := c.String("output-dir")
	total := 0
	for _, source := range sources {
		sourceDir := source.ResolveOutputDir(baseDir)
		if _, statErr := os.Stat(sourceDir); os.IsNotExist(statErr) {
			logger.Warn("No artifacts for source, skipping", "source", source.Name, "dir", sourceDir)
			continue
		}

		documents, err := Run(sourceDir, source.Name)
		if err != nil {
			logger.Error("Extraction failed", "source", source.Name, "error", err)
			continue
		}
		total += len(documents)
		fmt.Printf("%s: %d unique PDF(s) -> %s/%s\n", source.Name, len(documents), sourceDir, MetadataFileName)
	}

	fmt.Printf("Total unique PDFs found: %d\n", total)
	return nil
}
