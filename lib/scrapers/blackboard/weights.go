package blackboard

import (
	"regexp"
	"strings"

	"goodboard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// weightedAverageMarker prefixes the criteria text that carries the
// weighting scheme, e.g.
// "Promedio ponderado de Tarea 1 (10%), Examen Final (30%)".
const weightedAverageMarker = "Promedio ponderado de"

const finalGradeLabel = "Calificación Final"

var (
	weightedAveragePrefix = regexp.MustCompile(`(?i)Promedio ponderado de\s*`)
	finalGradePrefix      = regexp.MustCompile(`(?i)Calificación Final\s*`)
	weightEntryRegex      = regexp.MustCompile(`([^,]+?)\s*\(\s*(\d+(?:\.\d+)?)\s*%\s*\)`)
)

// ParseWeights extracts the title→percent map from a criteria string.
// Entries are "Name (NN%)" tokens separated by commas; known prefix
// phrases and the final-grade label are stripped from names. Percentages
// stay strings, exactly as written.
func ParseWeights(criteriaText string) map[string]string {
	weights := map[string]string{}
	if criteriaText == "" {
		return weights
	}

	cleaned := weightedAveragePrefix.ReplaceAllString(criteriaText, "")
	cleaned = finalGradePrefix.ReplaceAllString(cleaned, "")

	for _, m := range weightEntryRegex.FindAllStringSubmatch(cleaned, -1) {
		name := strings.TrimSpace(m[1])
		name = strings.TrimSpace(strings.TrimPrefix(name, ","))
		name = strings.TrimSpace(finalGradePrefix.ReplaceAllString(name, ""))
		if name == "" {
			continue
		}
		weights[name] = m[2]
	}
	return weights
}

// FindCriteriaText locates the raw criteria string on a legacy gradebook
// page: the grading-criteria control's lightbox argument first, then a
// page-wide scan for any element carrying the marker phrase.
func FindCriteriaText(doc *goquery.Document) string {
	control := htmlutil.FirstMatch(doc.Selection,
		`input[value="Criterios de calificación"]`,
		`button[title="Criterios de calificación"]`,
	)
	if control != nil {
		if text := LightboxArgument(control.AttrOr("onclick", "")); text != "" {
			return text
		}
	}

	criteriaText := ""
	doc.Find("div, span, p").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := htmlutil.InnerText(el)
		if strings.Contains(text, weightedAverageMarker) {
			criteriaText = text
			return false
		}
		return true
	})
	return criteriaText
}
