package enrich

import (
	"strings"
	"testing"

	"github.com/tlegoff/municrawl/models"
)

const frenchBody = `Liste des arrêtés municipaux publiés par la commune.
Les délibérations du conseil municipal sont consultables en mairie
aux horaires d'ouverture habituels.`

func frenchPage() models.PageResult {
	return models.PageResult{
		URL: "https://www.audierne.bzh/publications-arretes/",
		HTML: `<html><head><title>Arrêtés municipaux</title></head><body><article><p>` +
			frenchBody + `</p></article></body></html>`,
		Success: true,
	}
}

func TestPage_FillsMarkdownFromHTML(t *testing.T) {
	e := New()
	page := frenchPage()

	e.Page(&page)

	if page.Markdown == "" {
		t.Fatal("markdown not derived from HTML")
	}
	if !strings.Contains(page.Markdown, "arrêtés municipaux") {
		t.Errorf("derived markdown lost the body text:\n%s", page.Markdown)
	}
}

func TestPage_KeepsBackendMarkdown(t *testing.T) {
	e := New()
	page := frenchPage()
	page.Markdown = "# Backend version"

	e.Page(&page)

	if page.Markdown != "# Backend version" {
		t.Errorf("backend markdown overwritten: %q", page.Markdown)
	}
}

func TestPage_FillsTitle(t *testing.T) {
	e := New()
	page := frenchPage()

	e.Page(&page)

	if page.Metadata.Title == "" {
		t.Error("title not recovered from HTML")
	}
}

func TestPage_KeepsBackendTitle(t *testing.T) {
	e := New()
	page := frenchPage()
	page.Metadata.Title = "Backend title"

	e.Page(&page)

	if page.Metadata.Title != "Backend title" {
		t.Errorf("backend title overwritten: %q", page.Metadata.Title)
	}
}

func TestPage_DetectsFrench(t *testing.T) {
	e := New()
	page := frenchPage()

	e.Page(&page)

	if page.Metadata.Language != "fr" {
		t.Errorf("language = %q, want fr", page.Metadata.Language)
	}
}

func TestPage_NoGuessOnShortText(t *testing.T) {
	e := New()
	page := models.PageResult{
		URL:      "https://example.com/x",
		Markdown: "ok",
		Success:  true,
	}

	e.Page(&page)

	if page.Metadata.Language != "" {
		t.Errorf("language guessed from %d chars: %q", len(page.Markdown), page.Metadata.Language)
	}
}

func TestPage_FailedResultUntouched(t *testing.T) {
	e := New()
	page := models.PageResult{
		URL:     "https://example.com/x",
		HTML:    "<p>content that should stay unprocessed</p>",
		Success: false,
		Error:   "timeout",
	}

	e.Page(&page)

	if page.Markdown != "" || page.Metadata.Title != "" {
		t.Errorf("failed result was enriched: %+v", page)
	}
}
