package blackboard

import (
	"regexp"
	"strings"
)

var unsafeIdChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// signature joins field values into a stable dedup key. Identity comes
// from the joined fields themselves, not from hashing.
func signature(fields ...string) string {
	return strings.Join(fields, "-")
}

// taskId derives a storable id from an extractor family prefix and a
// signature, replacing anything unsafe for use as an identifier.
func taskId(family, sig string) string {
	return family + unsafeIdChars.ReplaceAllString(sig, "-")
}

// seenSet suppresses duplicate records within a single extraction pass.
// Cross-pass duplicates are the merge engine's problem, keyed on record
// identity instead.
type seenSet map[string]struct{}

func (s seenSet) has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s seenSet) add(key string) {
	s[key] = struct{}{}
}

// claim reports whether the key was unseen, marking it seen either way.
func (s seenSet) claim(key string) bool {
	if s.has(key) {
		return false
	}
	s.add(key)
	return true
}
