package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tlegoff/municrawl/internal/crawl"
	"github.com/tlegoff/municrawl/internal/download"
	"github.com/tlegoff/municrawl/internal/extract"
	"github.com/tlegoff/municrawl/internal/history"
	"github.com/tlegoff/municrawl/internal/sources"
	"github.com/tlegoff/municrawl/pkg/help"
)

var version = "dev"

// commonFlags are shared by every command that works against the registry
// and the output tree.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "source",
			Value: "all",
			Usage: "data source to process, or \"all\"",
		},
		&cli.StringFlag{
			Name:  "output-dir",
			Value: "ext_data",
			Usage: "base directory for per-source artifacts",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML registry file overriding the built-in sources",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "only log errors",
		},
	}
}

func main() {
	app := &cli.App{
		Name:    "municrawl",
		Usage:   "crawl municipal document pages and persist them for the data pipeline",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "crawl",
				Usage: "fetch the configured sources and persist page artifacts",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "mode",
						Value: "scrape",
						Usage: "scrape = seed page only, crawl = seed plus discovered pages",
					},
					&cli.IntFlag{
						Name:  "max-pages",
						Value: 100,
						Usage: "page cap per source in crawl mode",
					},
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "Firecrawl API key (overrides " + crawl.APIKeyEnvVar + ")",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "print what would be fetched without network or file I/O",
					},
				),
				Action: crawl.CrawlAction,
			},
			{
				Name:   "sources",
				Usage:  "list the configured data sources",
				Flags:  commonFlags(),
				Action: sources.ListAction,
			},
			{
				Name:   "extract",
				Usage:  "extract PDF links from saved artifacts into a download manifest",
				Flags:  commonFlags(),
				Action: extract.ExtractAction,
			},
			{
				Name:  "download",
				Usage: "download the PDFs listed in each source's manifest",
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "timeout",
						Value: 30,
						Usage: "per-download timeout in seconds",
					},
					&cli.DurationFlag{
						Name:  "delay",
						Value: 100 * time.Millisecond,
						Usage: "pause between downloads",
					},
				),
				Action: download.DownloadAction,
			},
			{
				Name:  "quickstart",
				Usage: "print a machine-readable usage summary",
				Action: func(c *cli.Context) error {
					fmt.Fprint(c.App.Writer, help.QuickstartYAML)
					return nil
				},
			},
			{
				Name:  "runs",
				Usage: "list recorded crawl runs",
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "maximum runs to list",
					},
					&cli.IntFlag{
						Name:  "run",
						Usage: "show the per-source breakdown for one run ID",
					},
				),
				Action: history.RunsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
