package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

var datePrefixes = []string{
	"Fecha de entrega:",
	"Vencimiento:",
	"Fecha límite:",
	"Due:",
}

// CleanDate strips known due-date prefixes and any parenthetical suffix
// from a raw date fragment. It never fails; unparseable input comes back
// trimmed as-is.
func CleanDate(raw string) string {
	cleaned := strings.TrimSpace(raw)
	for _, prefix := range datePrefixes {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
	}
	if idx := strings.Index(cleaned, "("); idx != -1 {
		cleaned = strings.TrimSpace(cleaned[:idx])
	}
	return cleaned
}

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize produces the canonical form used for fuzzy equality checks:
// diacritics stripped, lowercased, everything non-alphanumeric removed.
func Normalize(raw string) string {
	stripped, _, err := transform.String(stripMarks, raw)
	if err != nil {
		stripped = raw
	}
	out := strings.Builder{}
	for _, c := range strings.ToLower(stripped) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			out.WriteRune(c)
		}
	}
	return out.String()
}

// NormalizeTokens splits raw into normalized word tokens: diacritics
// stripped, lowercased, split on any non-alphanumeric run. Used for
// abbreviation-tolerant name matching where whole-string comparison is
// too strict.
func NormalizeTokens(raw string) []string {
	stripped, _, err := transform.String(stripMarks, raw)
	if err != nil {
		stripped = raw
	}
	var tokens []string
	current := strings.Builder{}
	for _, c := range strings.ToLower(stripped) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			current.WriteRune(c)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// CollapseWhitespace trims and collapses runs of inner whitespace into a
// single space.
func CollapseWhitespace(raw string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(raw), " ")
}
