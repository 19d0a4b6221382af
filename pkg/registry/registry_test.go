package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tlegoff/municrawl/models"
)

func TestResolve_All(t *testing.T) {
	reg := Default()

	resolved, err := reg.Resolve("all")
	if err != nil {
		t.Fatalf("Resolve(all) error = %v", err)
	}

	sources := reg.Sources()
	if len(resolved) != len(sources) {
		t.Fatalf("Resolve(all) returned %d sources, want %d", len(resolved), len(sources))
	}
	for i := range resolved {
		if resolved[i].Name != sources[i].Name {
			t.Errorf("Resolve(all)[%d] = %q, want %q (declaration order)", i, resolved[i].Name, sources[i].Name)
		}
	}
}

func TestResolve_SingleSource(t *testing.T) {
	reg := Default()

	resolved, err := reg.Resolve("mairie_arretes")
	if err != nil {
		t.Fatalf("Resolve(mairie_arretes) error = %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("Resolve(mairie_arretes) returned %d sources, want 1", len(resolved))
	}
	if resolved[0].Name != "mairie_arretes" {
		t.Errorf("resolved name = %q, want mairie_arretes", resolved[0].Name)
	}
}

func TestResolve_UnknownSource(t *testing.T) {
	reg := Default()

	_, err := reg.Resolve("does_not_exist")
	if err == nil {
		t.Fatal("Resolve(does_not_exist) expected error, got nil")
	}

	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
}

func TestResolve_EmptySelectorMeansAll(t *testing.T) {
	reg := Default()

	resolved, err := reg.Resolve("")
	if err != nil {
		t.Fatalf("Resolve(\"\") error = %v", err)
	}
	if len(resolved) != len(reg.Sources()) {
		t.Errorf("Resolve(\"\") returned %d sources, want %d", len(resolved), len(reg.Sources()))
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		sources []models.DataSource
	}{
		{"empty registry", nil},
		{"empty name", []models.DataSource{{URL: "https://x"}}},
		{"empty url", []models.DataSource{{Name: "a"}}},
		{"duplicate names", []models.DataSource{
			{Name: "a", URL: "https://x/a"},
			{Name: "a", URL: "https://x/b"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.sources)
			var confErr *ConfigurationError
			if !errors.As(err, &confErr) {
				t.Errorf("New() error = %v, want *ConfigurationError", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	content := `sources:
  - name: test_source
    url: https://example.com/docs/
    method: firecrawl
    expected_count: 12
  - name: other_source
    url: https://example.com/other/
    method: firecrawl+ocr
`
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	srcs := reg.Sources()
	if len(srcs) != 2 {
		t.Fatalf("loaded %d sources, want 2", len(srcs))
	}
	if srcs[0].Name != "test_source" || srcs[0].ExpectedCount != 12 {
		t.Errorf("first source = %+v, want test_source with expected_count 12", srcs[0])
	}
	if srcs[1].Method != models.MethodFirecrawlOCR {
		t.Errorf("second source method = %q, want firecrawl+ocr", srcs[1].Method)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("LoadFile(missing) error = %v, want *ConfigurationError", err)
	}
}
