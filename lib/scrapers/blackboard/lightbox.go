package blackboard

import (
	"regexp"
	"strings"
)

// The legacy gradebook stashes feedback HTML and criteria text inside the
// second quoted argument of an inline showInLightBox(...) handler, with
// quotes backslash-escaped. This is a tiny micro-format of its own, so it
// gets its own parser with a round-trippable escape counterpart.

var lightboxArgRegex = regexp.MustCompile(`showInLightBox\s*\(\s*'.*?',\s*'(.*?)',`)

// LightboxArgument extracts and unescapes the second argument of a
// showInLightBox call found in an inline handler attribute. Returns ""
// when the attribute doesn't carry the call.
func LightboxArgument(handler string) string {
	m := lightboxArgRegex.FindStringSubmatch(handler)
	if m == nil {
		return ""
	}
	return UnescapeLightbox(m[1])
}

func UnescapeLightbox(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, `'`)
	return s
}

// EscapeLightbox is the inverse of UnescapeLightbox, used to build
// fixtures and verify the round trip.
func EscapeLightbox(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}
