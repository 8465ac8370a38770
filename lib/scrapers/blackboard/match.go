package blackboard

import (
	"log/slog"
	"strings"

	"goodboard-backend/lib/htmlutil"
	"goodboard-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
)

// ResolveCourseName finds the name of the course a legacy frame belongs
// to, trying the course menu link, the page title, a specific breadcrumb,
// and finally the document title.
func ResolveCourseName(doc *goquery.Document) string {
	name := htmlutil.FirstText(doc.Selection,
		"#courseMenu_link",
		"#pageTitleText",
		"#crumb_1",
	)
	if name != "" {
		return name
	}
	return htmlutil.Text(doc.Find("title"))
}

// MatchesCourse reports whether the page belongs to the requested course.
// Portal titles carry extra decoration (group numbers, abbreviations), so
// the check is bidirectional substring containment on normalized forms,
// falling back to a token-level pass that tolerates abbreviated words
// ("Prog." for "Programación"). When no candidate name resolves at all
// the match conservatively passes; blocking on missing context would turn
// a noisy page into silent data loss.
func MatchesCourse(requested string, doc *goquery.Document) bool {
	found := ResolveCourseName(doc)
	if found == "" {
		slog.Warn("could not resolve any course name on page, proceeding", "requested", requested)
		return true
	}

	target := textutil.Normalize(requested)
	current := textutil.Normalize(found)
	if strings.Contains(current, target) || strings.Contains(target, current) {
		return true
	}
	return tokensContain(textutil.NormalizeTokens(requested), textutil.NormalizeTokens(found))
}

// tokensContain checks whether every token of the shorter name has a
// distinct counterpart in the longer one, where a counterpart is a token
// one of which prefixes the other. Abbreviations truncate words rather
// than rearrange them, so prefix matching catches "prog" against
// "programacion" without letting short tokens match mid-word.
func tokensContain(a, b []string) bool {
	shorter, longer := a, b
	if len(b) < len(a) {
		shorter, longer = b, a
	}
	if len(shorter) == 0 {
		return false
	}

	used := make([]bool, len(longer))
	for _, tok := range shorter {
		matched := false
		for i, other := range longer {
			if used[i] {
				continue
			}
			if strings.HasPrefix(other, tok) || strings.HasPrefix(tok, other) {
				used[i] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// weightSimilarityThreshold is the minimum JaroWinkler similarity for a
// weight label to attach to a row title when no exact entry exists.
const weightSimilarityThreshold = 0.92

// lookupWeight finds the weight entry for a row title: exact match first,
// then the most similar label above the threshold. Weight labels and row
// titles routinely drift apart by punctuation or accents, which the
// normalized JaroWinkler pass absorbs. Labels whose numeric tokens differ
// are never fuzzy candidates: sibling activities ("Tarea 1", "Tarea 2")
// share exactly the prefix JaroWinkler rewards, and attaching a sibling's
// weight is worse than attaching none.
func lookupWeight(weights map[string]string, title string) string {
	if weight, ok := weights[title]; ok {
		return weight
	}

	target := textutil.Normalize(title)
	titleNumbers := numberTokens(title)
	bestSimilarity := 0.0
	bestWeight := ""
	for name, weight := range weights {
		if !equalTokens(numberTokens(name), titleNumbers) {
			continue
		}
		similarity := matchr.JaroWinkler(textutil.Normalize(name), target, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			bestWeight = weight
		}
	}
	if bestSimilarity >= weightSimilarityThreshold {
		return bestWeight
	}
	return ""
}

func numberTokens(s string) []string {
	var out []string
	for _, tok := range textutil.NormalizeTokens(s) {
		if tok != "" && strings.IndexFunc(tok, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
			out = append(out, tok)
		}
	}
	return out
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
