// Package common holds small helpers shared across commands.
package common

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

// ContentHash computes the SHA256 hash of content and returns a hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// ShortHash returns the first 12 hex characters of the content hash, enough
// to disambiguate filenames without dominating them.
func ShortHash(data []byte) string {
	return ContentHash(data)[:12]
}

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// SanitizeFilename converts free text (usually a document title) into a safe
// filename, capped at maxLength characters before any extension.
func SanitizeFilename(text string, maxLength int) string {
	safe := invalidFilenameChars.ReplaceAllString(text, "")
	safe = whitespaceRun.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "._")

	if maxLength > 0 && len(safe) > maxLength {
		safe = safe[:maxLength]
	}
	if safe == "" {
		return "unnamed"
	}
	return safe
}
