// Package crawl implements the run driver: the orchestration loop that walks
// the selected sources, fetches pages through the backend client, persists
// artifacts, and aggregates the run summary. Per-source failures are isolated
// so one broken source never aborts the batch; only credential rejection and
// configuration errors unwind past the driver.
package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tlegoff/municrawl/models"
	"github.com/tlegoff/municrawl/pkg/artifacts"
	"github.com/tlegoff/municrawl/pkg/db"
	"github.com/tlegoff/municrawl/pkg/registry"
)

// FetchClient is the backend boundary the driver talks to. Page-level
// failures come back as data; the error returns are reserved for fatal
// conditions (credential rejection, cancelled context).
type FetchClient interface {
	Scrape(ctx context.Context, source models.DataSource) (models.PageResult, error)
	Crawl(ctx context.Context, source models.DataSource, maxPages int) ([]models.PageResult, error)
}

// Enricher fills missing metadata on a fetched page before persistence.
type Enricher interface {
	Page(*models.PageResult)
}

// Options are the per-run parameters resolved from the CLI.
type Options struct {
	Selector string
	Mode     models.CrawlMode
	MaxPages int
	DryRun   bool
}

// Driver iterates configured sources sequentially, in declaration order.
type Driver struct {
	registry *registry.Registry
	client   FetchClient
	enricher Enricher
	history  *db.DB
	logger   *slog.Logger
	baseDir  string
	out      io.Writer
}

// NewDriver wires a driver. enricher and history may be nil; the driver
// treats both as optional.
func NewDriver(reg *registry.Registry, client FetchClient, enricher Enricher, history *db.DB, logger *slog.Logger, baseDir string, out io.Writer) *Driver {
	return &Driver{
		registry: reg,
		client:   client,
		enricher: enricher,
		history:  history,
		logger:   logger,
		baseDir:  baseDir,
		out:      out,
	}
}

// Run executes one crawl invocation. Selection is validated before any
// network call or directory creation, so a typo fails fast with zero side
// effects. The returned summary is valid even when err is non-nil (aborted
// runs report what completed before the abort).
func (d *Driver) Run(ctx context.Context, opts Options) (*models.RunSummary, error) {
	summary := models.NewRunSummary(opts.Selector, opts.Mode)

	sources, err := d.registry.Resolve(opts.Selector)
	if err != nil {
		return summary, err
	}

	if opts.DryRun {
		d.printPlan(sources, opts)
		summary.EndedAt = time.Now()
		return summary, nil
	}

	runID := d.startHistory(opts, summary.StartedAt)

	for _, source := range sources {
		select {
		case <-ctx.Done():
			summary.EndedAt = time.Now()
			d.finishHistory(runID, "aborted", summary)
			return summary, ctx.Err()
		default:
		}

		stats, fatal := d.processSource(ctx, source, opts, summary)
		summary.Record(source.Name, stats)
		d.recordSourceHistory(runID, source.Name, stats)

		if fatal != nil {
			summary.EndedAt = time.Now()
			d.finishHistory(runID, "aborted", summary)
			return summary, fatal
		}
	}

	summary.EndedAt = time.Now()
	d.finishHistory(runID, "completed", summary)
	return summary, nil
}

// processSource runs one source through FETCHING to PERSISTED or FAILED. The
// returned error is non-nil only for fatal conditions that abort the batch.
func (d *Driver) processSource(ctx context.Context, source models.DataSource, opts Options, summary *models.RunSummary) (models.SourceStats, error) {
	var stats models.SourceStats
	startedAt := time.Now()

	d.logger.Info("Processing source",
		"source", source.Name, "url", source.URL, "mode", opts.Mode, "method", source.Method,
		"expected_count", source.ExpectedCount)

	writer, err := artifacts.NewWriter(source.ResolveOutputDir(d.baseDir))
	if err != nil {
		d.logger.Error("Cannot create output directory", "source", source.Name, "error", err)
		summary.AddError(source.Name, source.URL, err.Error())
		stats.Attempted, stats.Failed = 1, 1
		return stats, nil
	}

	results, fatal := d.fetch(ctx, source, opts)
	if fatal != nil {
		return stats, fatal
	}

	if len(results) == 0 {
		// A crawl that discovered nothing is a wholly failed source, but
		// the run proceeds to the next one.
		errMsg := "crawl returned no pages"
		d.logger.Error("Source produced no results", "source", source.Name)
		if logErr := writer.AppendError(source.URL, errMsg); logErr != nil {
			d.logger.Warn("Failed to append error log", "source", source.Name, "error", logErr)
		}
		summary.AddError(source.Name, source.URL, errMsg)
		stats.Attempted, stats.Failed = 1, 1
		return stats, nil
	}

	index := artifacts.NewIndex(source.Name, opts.Mode, startedAt)
	for _, page := range results {
		stats.Attempted++
		if d.persistPage(writer, index, source, page, summary) {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
	}

	if _, err := index.WriteIndex(writer); err != nil {
		d.logger.Warn("Failed to write index", "source", source.Name, "error", err)
	}
	meta := artifacts.RunMetadata{
		Source:    source.Name,
		Mode:      opts.Mode,
		MaxPages:  opts.MaxPages,
		StartedAt: startedAt,
		EndedAt:   time.Now(),
		Counts:    stats,
	}
	if _, err := index.WriteRunMetadata(writer, meta); err != nil {
		d.logger.Warn("Failed to write run metadata", "source", source.Name, "error", err)
	}

	d.logger.Info("Source complete",
		"source", source.Name, "attempted", stats.Attempted,
		"succeeded", stats.Succeeded, "failed", stats.Failed,
		"indexed", index.Len())
	return stats, nil
}

// fetch invokes the client in the requested mode. Scrape mode always yields
// exactly one result; crawl mode yields up to MaxPages.
func (d *Driver) fetch(ctx context.Context, source models.DataSource, opts Options) ([]models.PageResult, error) {
	if opts.Mode == models.ModeCrawl {
		return d.client.Crawl(ctx, source, opts.MaxPages)
	}
	page, err := d.client.Scrape(ctx, source)
	if err != nil {
		return nil, err
	}
	return []models.PageResult{page}, nil
}

// persistPage writes one page's artifacts or logs its failure, and reports
// whether the page counts as a success.
func (d *Driver) persistPage(writer *artifacts.Writer, index *artifacts.Index, source models.DataSource, page models.PageResult, summary *models.RunSummary) bool {
	if page.Success && d.enricher != nil {
		d.enricher.Page(&page)
	}

	errMsg := page.Error
	if page.Success && !page.HasContent() {
		errMsg = "backend returned no content"
	}

	if page.Success && errMsg == "" {
		if err := writer.WritePage(page); err != nil {
			// Persistence failure is a page-level failure like any fetch
			// failure; the page write left nothing partial behind.
			errMsg = err.Error()
		} else {
			index.Add(page)
			d.logger.Info("Page persisted", "source", source.Name, "url", page.URL)
			return true
		}
	}

	d.logger.Error("Page failed", "source", source.Name, "url", page.URL, "error", errMsg)
	if err := writer.AppendError(page.URL, errMsg); err != nil {
		d.logger.Warn("Failed to append error log", "source", source.Name, "error", err)
	}
	summary.AddError(source.Name, page.URL, errMsg)
	return false
}

// printPlan previews the run without touching network or disk.
func (d *Driver) printPlan(sources []models.DataSource, opts Options) {
	fmt.Fprintln(d.out, "DRY RUN - no pages will be fetched, no files written")
	for _, source := range sources {
		fmt.Fprintf(d.out, "Would process: %s\n", source.Name)
		fmt.Fprintf(d.out, "  URL: %s\n", source.URL)
		fmt.Fprintf(d.out, "  Mode: %s\n", opts.Mode)
		if opts.Mode == models.ModeCrawl {
			fmt.Fprintf(d.out, "  Max pages: %d\n", opts.MaxPages)
		}
		fmt.Fprintf(d.out, "  Output: %s\n", source.ResolveOutputDir(d.baseDir))
	}
}

func (d *Driver) startHistory(opts Options, startedAt time.Time) int64 {
	if d.history == nil {
		return 0
	}
	runID, err := d.history.StartRun(opts.Selector, opts.Mode, opts.MaxPages, startedAt)
	if err != nil {
		d.logger.Warn("Failed to record run start", "error", err)
		return 0
	}
	return runID
}

func (d *Driver) recordSourceHistory(runID int64, source string, stats models.SourceStats) {
	if d.history == nil || runID == 0 {
		return
	}
	if err := d.history.RecordSourceResult(runID, source, stats); err != nil {
		d.logger.Warn("Failed to record source result", "source", source, "error", err)
	}
}

func (d *Driver) finishHistory(runID int64, status string, summary *models.RunSummary) {
	if d.history == nil || runID == 0 {
		return
	}
	if err := d.history.FinishRun(runID, status, summary.Totals(), summary.EndedAt); err != nil {
		d.logger.Warn("Failed to record run end", "error", err)
	}
}
