package artifacts

import "strings"

const maxSlugLength = 200

// Slug converts a URL into a filesystem-safe artifact name. The transform is
// part of the on-disk contract: downstream steps locate a page's artifacts by
// recomputing the same slug.
func Slug(rawURL string) string {
	s := strings.TrimPrefix(rawURL, "https://")
	s = strings.TrimPrefix(s, "http://")

	replacer := strings.NewReplacer(
		"/", "_",
		"?", "_",
		"&", "_",
		"=", "_",
		":", "_",
	)
	s = replacer.Replace(s)
	s = strings.Trim(s, "_")

	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
	}
	if s == "" {
		return "page"
	}
	return s
}
