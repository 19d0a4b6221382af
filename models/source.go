// Package models defines shared data structures for sources, pages, and runs.
package models

import "path/filepath"

// ExtractionMethod tags the post-processing a source's documents need
// downstream. It is informational only: the crawl pipeline records it in page
// metadata but never branches on it.
type ExtractionMethod string

const (
	MethodFirecrawl    ExtractionMethod = "firecrawl"
	MethodFirecrawlOCR ExtractionMethod = "firecrawl+ocr"
	MethodOCR          ExtractionMethod = "ocr"
)

// DataSource is one configured crawl target. Sources are loaded once at
// startup and never mutated during a run.
type DataSource struct {
	Name          string           `yaml:"name"`
	URL           string           `yaml:"url"`
	Method        ExtractionMethod `yaml:"method"`
	OutputDir     string           `yaml:"output_dir,omitempty"`
	Description   string           `yaml:"description,omitempty"`
	ExpectedCount int              `yaml:"expected_count,omitempty"`
}

// ResolveOutputDir returns the destination for this source's artifacts,
// defaulting to <base>/<name> when no explicit directory is configured.
func (s DataSource) ResolveOutputDir(base string) string {
	if s.OutputDir != "" {
		return s.OutputDir
	}
	return filepath.Join(base, s.Name)
}

// CrawlMode selects how many pages are fetched per source.
type CrawlMode string

const (
	// ModeScrape fetches exactly the seed URL.
	ModeScrape CrawlMode = "scrape"
	// ModeCrawl fetches the seed URL plus discovered same-site pages,
	// bounded by a page cap.
	ModeCrawl CrawlMode = "crawl"
)
