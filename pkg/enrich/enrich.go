// Package enrich fills gaps in backend-supplied page metadata from the
// returned HTML. The backend usually provides title and language, but the
// municipal document pages are template-heavy and the fields come back empty
// often enough that downstream indexing needs a local fallback.
package enrich

import (
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"github.com/tlegoff/municrawl/models"
)

// minTextForDetection avoids language guesses on near-empty pages.
const minTextForDetection = 40

// Enricher derives missing page metadata and content forms. Safe for reuse
// across pages; the language detector's models load lazily on first use.
type Enricher struct {
	detector lingua.LanguageDetector
}

// New creates an enricher. The candidate language set is small on purpose:
// the corpus is French municipal paperwork with occasional English, and a
// narrow set keeps detection confident on short document lists.
func New() *Enricher {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.French, lingua.English, lingua.German, lingua.Spanish).
		Build()
	return &Enricher{detector: detector}
}

// Page fills in whatever the backend left blank on a successful result:
// markdown converted from HTML, title/description/site name via readability,
// and detected language. Failed results pass through untouched.
func (e *Enricher) Page(page *models.PageResult) {
	if page == nil || !page.Success {
		return
	}

	if page.Markdown == "" && page.HTML != "" {
		page.Markdown = convertToMarkdown(page.URL, page.HTML)
	}

	if page.HTML != "" && (page.Metadata.Title == "" || page.Metadata.Description == "" || page.Metadata.SiteName == "") {
		e.applyReadability(page)
	}

	if page.Metadata.Language == "" {
		page.Metadata.Language = e.detectLanguage(page.Markdown)
	}
}

func (e *Enricher) applyReadability(page *models.PageResult) {
	pageURL, err := url.Parse(page.URL)
	if err != nil {
		return
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(page.HTML), pageURL)
	if err != nil {
		return
	}
	if page.Metadata.Title == "" {
		page.Metadata.Title = article.Title
	}
	if page.Metadata.Description == "" {
		page.Metadata.Description = article.Excerpt
	}
	if page.Metadata.SiteName == "" {
		page.Metadata.SiteName = article.SiteName
	}
}

func (e *Enricher) detectLanguage(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minTextForDetection {
		return ""
	}
	lang, ok := e.detector.DetectLanguageOf(trimmed)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// convertToMarkdown renders HTML as markdown so the .md artifact exists for
// every successful page. Conversion failure is not a page failure; the HTML
// artifact still carries the content.
func convertToMarkdown(pageURL, html string) string {
	domain := ""
	if u, err := url.Parse(pageURL); err == nil {
		domain = u.Host
	}
	converter := htmltomarkdown.NewConverter(domain, true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return ""
	}
	return markdown
}
