// Package download fetches the PDFs listed in a source's extraction
// manifest. Downloads are sequential and paced to stay gentle on the
// municipal server; files already on disk are skipped so re-runs only pick
// up what is missing.
package download

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tlegoff/municrawl/internal/common"
	"github.com/tlegoff/municrawl/internal/extract"
)

const (
	// PDFDirName is the subdirectory PDFs land in, under each source.
	PDFDirName = "pdfs"
	// ErrorFileName records failed downloads for a later retry.
	ErrorFileName = "download_errors.json"

	maxTitleLength = 100
)

// Summary counts outcomes for one source's download pass.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// FailedDownload is one errored download in download_errors.json.
type FailedDownload struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Error    string `json:"error"`
}

// Downloader fetches PDFs one at a time with a pause between requests.
type Downloader struct {
	client *http.Client
	delay  time.Duration
}

// NewDownloader creates a downloader with the given request timeout and
// inter-request delay.
func NewDownloader(timeout, delay time.Duration) *Downloader {
	return &Downloader{
		client: &http.Client{Timeout: timeout},
		delay:  delay,
	}
}

// Filename picks the on-disk name for a document: sanitized title plus the
// URL hash when a title is present, hash alone otherwise. The hash suffix
// keeps distinct URLs with the same title from colliding.
func Filename(doc extract.Document) string {
	if doc.Title != "" {
		return common.SanitizeFilename(doc.Title, maxTitleLength) + "_" + doc.Hash + ".pdf"
	}
	return doc.Hash + ".pdf"
}

// Run downloads every document in the source's manifest into <dir>/pdfs/,
// skipping files that already exist, and writes download_errors.json when
// anything failed. A missing manifest is an error; run extract first.
func (d *Downloader) Run(sourceDir string) (Summary, error) {
	var summary Summary

	manifestPath := filepath.Join(sourceDir, extract.MetadataFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return summary, fmt.Errorf("failed to read manifest %s (run extract first): %w", manifestPath, err)
	}
	var documents []extract.Document
	if err := json.Unmarshal(data, &documents); err != nil {
		return summary, fmt.Errorf("failed to parse manifest %s: %w", manifestPath, err)
	}

	pdfDir := filepath.Join(sourceDir, PDFDirName)
	if err := os.MkdirAll(pdfDir, 0750); err != nil {
		return summary, fmt.Errorf("failed to create pdf directory: %w", err)
	}

	var failures []FailedDownload
	for _, doc := range documents {
		if doc.URL == "" {
			continue
		}
		name := Filename(doc)
		target := filepath.Join(pdfDir, name)

		if _, err := os.Stat(target); err == nil {
			summary.Skipped++
			continue
		}

		if err := d.fetchFile(doc.URL, target); err != nil {
			summary.Failed++
			failures = append(failures, FailedDownload{Filename: name, URL: doc.URL, Error: err.Error()})
			continue
		}
		summary.Downloaded++
		time.Sleep(d.delay)
	}

	if len(failures) > 0 {
		data, err := json.MarshalIndent(failures, "", "  ")
		if err == nil {
			err = os.WriteFile(filepath.Join(sourceDir, ErrorFileName), data, 0644)
		}
		if err != nil {
			return summary, fmt.Errorf("failed to write error log: %w", err)
		}
	}
	return summary, nil
}

// fetchFile streams one PDF to disk via a temp name so an interrupted
// download never leaves a truncated file under the final name.
func (d *Downloader) fetchFile(url, target string) error {
	resp, err := d.client.Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp := target + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to commit file: %w", err)
	}
	return nil
}
