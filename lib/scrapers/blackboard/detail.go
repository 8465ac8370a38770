package blackboard

import (
	"strings"

	"goodboard-backend/lib/htmlutil"
	"goodboard-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// DetailResult is the outcome of one grade-detail extraction. CourseName
// is the name actually found on the page, which may differ from the
// requested one.
type DetailResult struct {
	CourseName string
	Rows       []DetailRow
	Weights    map[string]string
}

func (r DetailResult) Empty() bool {
	return len(r.Rows) == 0
}

// Detail converts the result into the persisted CourseDetail record.
func (r DetailResult) Detail() CourseDetail {
	return CourseDetail{
		Title:   r.CourseName,
		Grades:  r.Rows,
		Weights: r.Weights,
	}
}

// ExtractGradeDetails scrapes the legacy per-course gradebook embedded in
// an Ultra frame. When requestedCourse is non-empty and the page
// identifies as a different course, the result is deliberately empty:
// the caller is probing several frames and another one owns the answer.
func ExtractGradeDetails(doc *goquery.Document, requestedCourse string) DetailResult {
	result := DetailResult{
		CourseName: ResolveCourseName(doc),
		Weights:    map[string]string{},
	}

	if requestedCourse != "" && !MatchesCourse(requestedCourse, doc) {
		return result
	}

	rows := detailRows(doc)
	if len(rows) == 0 {
		return result
	}

	result.Weights = ParseWeights(FindCriteriaText(doc))

	for _, row := range rows {
		detail, ok := extractDetailRow(row, result.Weights)
		if !ok {
			continue
		}
		result.Rows = append(result.Rows, detail)
	}
	return result
}

// detailRows locates the activity rows, recovering them from the content
// frame links' ancestors when the row class is absent.
func detailRows(doc *goquery.Document) []*goquery.Selection {
	var rows []*goquery.Selection
	doc.Find("div.sortable_item_row").Each(func(_ int, row *goquery.Selection) {
		rows = append(rows, row)
	})
	if len(rows) > 0 {
		return rows
	}

	doc.Find(`a[onclick*="loadContentFrame"]`).Each(func(_ int, link *goquery.Selection) {
		row := link.Closest(`div[role="row"]`)
		if row.Length() == 0 {
			row = link.Closest("tr")
		}
		if row.Length() == 0 {
			row = link.Closest(".cell").Parent()
		}
		if row.Length() > 0 {
			rows = append(rows, row)
		}
	})
	return rows
}

func extractDetailRow(row *goquery.Selection, weights map[string]string) (DetailRow, bool) {
	titleEl := htmlutil.FirstMatch(row,
		".cell.gradable a",
		`.cell.gradable span[id^="_"]`,
		`a[onclick*="loadContentFrame"]`,
	)
	if titleEl == nil {
		return DetailRow{}, false
	}
	title := htmlutil.Text(titleEl)
	// the calculated-grade summary appears as a regular row; it is not
	// an activity
	if title == "" || title == finalGradeLabel {
		return DetailRow{}, false
	}

	detail := DetailRow{
		Title:          title,
		DueDate:        textutil.CleanDate(htmlutil.Text(row.Find(".cell.gradable .activityType"))),
		SubmittedDate:  htmlutil.Text(row.Find(".cell.activity .lastActivityDate")),
		Status:         rowStatusFromLabel(htmlutil.Text(row.Find(".cell.activity .activityType"))),
		Grade:          htmlutil.Text(row.Find(".cell.grade .grade")),
		PointsPossible: strings.TrimSpace(strings.ReplaceAll(htmlutil.Text(row.Find(".cell.grade .pointsPossible")), "/", "")),
		Weight:         lookupWeight(weights, title),
	}

	if feedbackEl := row.Find(".cell.grade .grade-feedback"); feedbackEl.Length() > 0 {
		detail.Feedback = htmlutil.Sanitize(LightboxArgument(feedbackEl.AttrOr("onclick", "")))
	}

	// ungraded rows default to the sentinel and count as pending; a
	// submitted date wins over the grade-derived status
	if detail.Grade == "" {
		detail.Grade = UngradedGrade
	}
	if detail.Grade == UngradedGrade {
		detail.Status = RowPending
	}
	if detail.SubmittedDate != "" {
		detail.Status = RowSubmitted
	}

	return detail, true
}

// rowStatusFromLabel maps the portal's activity labels (both locales
// observed in the wild) onto the row status enum; unrecognized labels
// stay empty.
func rowStatusFromLabel(label string) RowStatus {
	normalized := textutil.Normalize(label)
	switch {
	case strings.Contains(normalized, "calificado") || strings.Contains(normalized, "graded"):
		return RowGraded
	case strings.Contains(normalized, "enviado") || strings.Contains(normalized, "submitted"):
		return RowSubmitted
	case strings.Contains(normalized, "pendiente") || strings.Contains(normalized, "pending") ||
		strings.Contains(normalized, "proximamente") || strings.Contains(normalized, "upcoming"):
		return RowPending
	}
	return ""
}
