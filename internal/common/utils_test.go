package common

import (
	"strings"
	"testing"
)

func TestShortHash(t *testing.T) {
	h := ShortHash([]byte("https://example.com/doc.pdf"))
	if len(h) != 12 {
		t.Errorf("ShortHash length = %d, want 12", len(h))
	}
	if h != ShortHash([]byte("https://example.com/doc.pdf")) {
		t.Error("ShortHash not deterministic")
	}
	if h == ShortHash([]byte("https://example.com/other.pdf")) {
		t.Error("distinct inputs produced the same short hash")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain title", "Arrete municipal 2024", "Arrete_municipal_2024"},
		{"path-hostile chars", `Arrêté: circulation / "centre-ville"`, "Arrêté_circulation_centre-ville"},
		{"whitespace runs", "a   b\t c", "a_b_c"},
		{"empty input", "", "unnamed"},
		{"only invalid chars", `<>:"/\|?*`, "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in, 100); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_LengthCap(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("a", 300), 100)
	if len(got) != 100 {
		t.Errorf("length = %d, want 100", len(got))
	}
}
