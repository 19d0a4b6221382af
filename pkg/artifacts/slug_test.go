package artifacts

import (
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			"plain page",
			"https://www.audierne.bzh/publications-arretes/",
			"www.audierne.bzh_publications-arretes",
		},
		{
			"query string",
			"https://www.audierne.bzh/systeme/documentheque/?documents_category=49",
			"www.audierne.bzh_systeme_documentheque___documents_category_49",
		},
		{
			"http scheme",
			"http://example.com/a/b",
			"example.com_a_b",
		},
		{
			"empty input",
			"",
			"page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.url); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestSlug_LengthCap(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("x", 500)
	got := Slug(long)
	if len(got) > maxSlugLength {
		t.Errorf("Slug length = %d, want <= %d", len(got), maxSlugLength)
	}
}

func TestSlug_Stable(t *testing.T) {
	url := "https://www.audierne.bzh/deliberations-conseil-municipal/"
	if Slug(url) != Slug(url) {
		t.Error("Slug is not deterministic for the same URL")
	}
}
