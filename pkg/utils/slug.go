package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// MakeSlug normalizes free text into a URL-safe identifier: diacritics
// stripped, lower-cased, runs of anything outside [a-z0-9] collapsed to a
// single hyphen, leading/trailing hyphens trimmed. Output matches
// [a-z0-9-]* (empty input stays empty). Uniqueness is not checked here;
// the videos table's unique index is the enforcement point.
func MakeSlug(text string) string {
	flat, _, err := transform.String(deaccent, text)
	if err != nil {
		flat = text
	}
	var b strings.Builder
	b.Grow(len(flat))
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(flat) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
