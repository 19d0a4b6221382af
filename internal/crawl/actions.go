package crawl

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tlegoff/municrawl/models"
	"github.com/tlegoff/municrawl/pkg/db"
	"github.com/tlegoff/municrawl/pkg/enrich"
	"github.com/tlegoff/municrawl/pkg/firecrawl"
	"github.com/tlegoff/municrawl/pkg/registry"
)

// APIKeyEnvVar is the environment fallback for --api-key.
const APIKeyEnvVar = "FIRECRAWL_API_KEY"

// NewLogger builds the shared JSON logger. --quiet keeps only errors.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadRegistry resolves the source registry from --config or the built-in
// defaults.
func LoadRegistry(c *cli.Context) (*registry.Registry, error) {
	if c.IsSet("config") {
		return registry.LoadFile(c.String("config"))
	}
	return registry.Default(), nil
}

// ensureWorkspace validates the source selection before anything is created
// on disk, then creates the output base directory. An unknown selector leaves
// no trace: no directory, no history database.
func ensureWorkspace(reg *registry.Registry, selector, baseDir string) error {
	if _, err := reg.Resolve(selector); err != nil {
		return err
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return fmt.Errorf("cannot create output directory %s: %w", baseDir, err)
	}
	return nil
}

// CrawlAction is the entry point for `municrawl crawl`.
func CrawlAction(c *cli.Context) error {
	logger := NewLogger(c.Bool("quiet"))

	reg, err := LoadRegistry(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	mode := models.CrawlMode(c.String("mode"))
	if mode != models.ModeScrape && mode != models.ModeCrawl {
		fmt.Fprintf(os.Stderr, "Error: invalid --mode %q (expected scrape or crawl)\n", c.String("mode"))
		os.Exit(2)
	}

	opts := Options{
		Selector: c.String("source"),
		Mode:     mode,
		MaxPages: c.Int("max-pages"),
		DryRun:   c.Bool("dry-run"),
	}
	baseDir := c.String("output-dir")

	// Dry run never needs credentials, network, or the history database.
	if opts.DryRun {
		driver := NewDriver(reg, nil, nil, nil, logger, baseDir, os.Stdout)
		if _, err := driver.Run(c.Context, opts); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
		return nil
	}

	apiKey := c.String("api-key")
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnvVar)
	}
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: no Firecrawl API key (use --api-key or set "+APIKeyEnvVar+")")
		os.Exit(2)
	}

	if err := ensureWorkspace(reg, opts.Selector, baseDir); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	history, err := db.Open(baseDir)
	if err != nil {
		logger.Warn("Run history unavailable, continuing without it", "error", err)
		history = nil
	}
	if history != nil {
		defer history.Close()
	}

	client := firecrawl.NewClient(apiKey)
	driver := NewDriver(reg, client, enrich.New(), history, logger, baseDir, os.Stdout)

	summary, runErr := driver.Run(c.Context, opts)
	PrintSummary(os.Stdout, summary)

	if runErr != nil {
		var authErr *firecrawl.AuthError
		if errors.As(runErr, &authErr) {
			fmt.Fprintln(os.Stderr, "Run aborted:", authErr)
			fmt.Fprintln(os.Stderr, "The credential was rejected; no further fetch can succeed. Check --api-key / "+APIKeyEnvVar+".")
		} else {
			fmt.Fprintln(os.Stderr, "Run aborted:", runErr)
		}
		os.Exit(2)
	}

	if code := ExitCode(summary); code != 0 {
		os.Exit(code)
	}
	return nil
}
