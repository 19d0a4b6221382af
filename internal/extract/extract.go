// Package extract pulls PDF document links out of previously crawled
// artifacts. The municipal site publishes actes and délibérations as PDFs
// linked from the pages the crawler saved; this step turns those saved pages
// into a per-source download manifest for the download command.
package extract

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tlegoff/municrawl/internal/common"
)

// MetadataFileName is the per-source download manifest.
const MetadataFileName = "extracted_pdf_metadata.json"

// Document is one PDF link found in a source's saved artifacts.
type Document struct {
	URL            string `json:"url"`
	Title          string `json:"title,omitempty"`
	Hash           string `json:"hash"`
	SourceFile     string `json:"source_file"`
	SourceCategory string `json:"source_category"`
}

// markdownPDFLink matches [title](https://…/file.pdf) links in markdown.
var markdownPDFLink = regexp.MustCompile(`\[([^\]]*)\]\((https?://[^)\s]+?\.[pP][dD][fF][^)\s]*)\)`)

// FromHTML extracts PDF links from one saved HTML artifact. Relative hrefs
// are resolved against the page URL recorded in the artifact's metadata.
func FromHTML(htmlContent, baseURL string) ([]Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, _ := url.Parse(baseURL)

	var documents []Document
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !isPDFLink(href) {
			return
		}
		resolved := href
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				resolved = base.ResolveReference(ref).String()
			}
		}
		title := strings.TrimSpace(sel.Text())
		documents = append(documents, newDocument(resolved, title))
	})
	return documents, nil
}

// FromMarkdown extracts PDF links from one saved markdown artifact.
func FromMarkdown(markdown string) []Document {
	var documents []Document
	for _, match := range markdownPDFLink.FindAllStringSubmatch(markdown, -1) {
		documents = append(documents, newDocument(match[2], strings.TrimSpace(match[1])))
	}
	return documents
}

func isPDFLink(href string) bool {
	cleaned := href
	if i := strings.IndexAny(cleaned, "?#"); i >= 0 {
		cleaned = cleaned[:i]
	}
	return strings.HasSuffix(strings.ToLower(cleaned), ".pdf")
}

func newDocument(docURL, title string) Document {
	return Document{
		URL:   docURL,
		Title: title,
		Hash:  common.ShortHash([]byte(docURL)),
	}
}

// Run walks a source directory's saved pages, extracts every PDF link,
// dedupes by URL, and writes the download manifest. Index and metadata files
// are skipped; only page artifacts are scanned.
func Run(sourceDir, sourceName string) ([]Document, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory %s: %w", sourceDir, err)
	}

	byURL := make(map[string]Document)
	order := []string{}

	record := func(docs []Document, fileName string) {
		for _, d := range docs {
			d.SourceFile = fileName
			d.SourceCategory = sourceName
			if _, seen := byURL[d.URL]; !seen {
				byURL[d.URL] = d
				order = append(order, d.URL)
			}
		}
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "index_") {
			continue
		}

		switch {
		case strings.HasSuffix(name, ".html"):
			content, err := os.ReadFile(filepath.Join(sourceDir, name))
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", name, err)
			}
			pageURL := pageURLFromMetadata(sourceDir, name)
			docs, err := FromHTML(string(content), pageURL)
			if err != nil {
				return nil, fmt.Errorf("failed to extract from %s: %w", name, err)
			}
			record(docs, name)
		case strings.HasSuffix(name, ".md"):
			content, err := os.ReadFile(filepath.Join(sourceDir, name))
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", name, err)
			}
			record(FromMarkdown(string(content)), name)
		}
	}

	documents := make([]Document, 0, len(order))
	for _, u := range order {
		documents = append(documents, byURL[u])
	}

	data, err := json.MarshalIndent(documents, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(sourceDir, MetadataFileName), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	return documents, nil
}

// pageURLFromMetadata recovers the page URL from the sibling metadata file so
// relative links resolve correctly. Missing metadata just means links stay as
// written.
func pageURLFromMetadata(sourceDir, htmlName string) string {
	slug := strings.TrimSuffix(htmlName, ".html")
	data, err := os.ReadFile(filepath.Join(sourceDir, slug+"_metadata.json"))
	if err != nil {
		return ""
	}
	var meta struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return ""
	}
	return meta.URL
}
