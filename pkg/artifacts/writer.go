// Package artifacts persists fetched pages under each source's output
// directory. The file layout is the durable contract with downstream
// OCR/embedding steps: per-page markdown, HTML and metadata JSON siblings,
// a per-run index, a per-run crawl metadata file, and an append-only error
// log.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tlegoff/municrawl/models"
)

const (
	// ErrorLogName is the per-source append-only failure log.
	ErrorLogName = "errors.log"
	// TimestampLayout names index and crawl metadata files per run.
	TimestampLayout = "20060102_150405"
)

// Writer persists artifacts for one source directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at the source's output directory,
// creating it if needed. Creation is idempotent: an existing, non-empty
// directory is left untouched.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the writer's root directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WritePage persists a successful page's three artifact files. The write is
// all-or-nothing at page granularity: every file is staged under a temporary
// name and renamed only after all stages succeeded, so a failure never leaves
// partial output behind.
func (w *Writer) WritePage(page models.PageResult) error {
	slug := Slug(page.URL)

	metadata, err := json.MarshalIndent(struct {
		URL string `json:"url"`
		models.PageMetadata
	}{URL: page.URL, PageMetadata: page.Metadata}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode page metadata: %w", err)
	}

	stages := []struct {
		name    string
		content []byte
	}{
		{slug + ".md", []byte(page.Markdown)},
		{slug + ".html", []byte(page.HTML)},
		{slug + "_metadata.json", metadata},
	}

	var staged []string
	cleanup := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for _, stage := range stages {
		tmp := filepath.Join(w.dir, "."+stage.name+".tmp")
		if err := os.WriteFile(tmp, stage.content, 0644); err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", stage.name, err)
		}
		staged = append(staged, tmp)
	}

	for i, stage := range stages {
		if err := os.Rename(staged[i], filepath.Join(w.dir, stage.name)); err != nil {
			cleanup()
			return fmt.Errorf("failed to commit %s: %w", stage.name, err)
		}
	}
	return nil
}

// AppendError records one failed page as a single line in errors.log.
func (w *Writer) AppendError(url, errMsg string) error {
	f, err := os.OpenFile(filepath.Join(w.dir, ErrorLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open error log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s error=%q\n", time.Now().Format(time.RFC3339), url, errMsg)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to error log: %w", err)
	}
	return nil
}
