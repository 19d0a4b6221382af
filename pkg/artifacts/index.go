package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tlegoff/municrawl/models"
)

// IndexEntry is one successfully fetched page in a run's index.
type IndexEntry struct {
	URL       string
	Title     string
	FetchedAt time.Time
}

// Index collects successful pages for one source during a run and writes the
// per-run manifest files. Each run gets a fresh, timestamped index; prior
// runs' indexes are never merged or deleted.
type Index struct {
	source  string
	mode    models.CrawlMode
	stamp   string
	entries []IndexEntry
}

// NewIndex starts an index for one source, stamped with the run start time.
func NewIndex(source string, mode models.CrawlMode, startedAt time.Time) *Index {
	return &Index{
		source: source,
		mode:   mode,
		stamp:  startedAt.Format(TimestampLayout),
	}
}

// Add appends an entry for a successful page, in fetch completion order.
func (ix *Index) Add(page models.PageResult) {
	title := page.Metadata.Title
	if title == "" {
		title = "Untitled"
	}
	ix.entries = append(ix.entries, IndexEntry{
		URL:       page.URL,
		Title:     title,
		FetchedAt: page.Metadata.FetchedAt,
	})
}

// Len returns the number of indexed pages.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// WriteIndex writes index_<timestamp>.md listing every indexed page.
func (ix *Index) WriteIndex(w *Writer) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Crawl Index - %s\n\n", ix.stamp)
	fmt.Fprintf(&sb, "Source: %s\nMode: %s\nTotal pages: %d\n\n", ix.source, ix.mode, len(ix.entries))
	for i, e := range ix.entries {
		fmt.Fprintf(&sb, "%d. [%s](%s) - fetched %s\n", i+1, e.Title, e.URL, e.FetchedAt.Format(time.RFC3339))
	}

	name := fmt.Sprintf("index_%s.md", ix.stamp)
	path := filepath.Join(w.Dir(), name)
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write index: %w", err)
	}
	return path, nil
}

// RunMetadata captures the parameters and counts of one source's run,
// persisted as crawl_metadata_<timestamp>.json.
type RunMetadata struct {
	Source    string             `json:"source"`
	Mode      models.CrawlMode   `json:"mode"`
	MaxPages  int                `json:"max_pages,omitempty"`
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at"`
	Counts    models.SourceStats `json:"counts"`
}

// WriteRunMetadata persists the run parameters next to the index.
func (ix *Index) WriteRunMetadata(w *Writer, meta RunMetadata) (string, error) {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode run metadata: %w", err)
	}
	name := fmt.Sprintf("crawl_metadata_%s.json", ix.stamp)
	path := filepath.Join(w.Dir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run metadata: %w", err)
	}
	return path, nil
}
