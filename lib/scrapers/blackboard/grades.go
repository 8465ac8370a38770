package blackboard

import (
	"fmt"
	"strings"
	"time"

	"goodboard-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// IsGlobalGradesUrl reports whether the url is the portal-wide grades
// overview rather than one course's gradebook.
func IsGlobalGradesUrl(url string) bool {
	return strings.Contains(url, "/ultra/grades") && !strings.Contains(url, "courseId=")
}

// ExtractGrades reads the course-level grade cards of the global grades
// page. Card urls are rewritten to the canonical course gradebook url so
// downstream navigation never lands on a legacy tool wrapper.
func ExtractGrades(doc *goquery.Document, baseUrl string, now time.Time) []Grade {
	var grades []Grade
	doc.Find(".element-card").Each(func(_ int, card *goquery.Selection) {
		courseEl := card.Find(".subheader a")
		gradeEl := card.Find(".customGradePill bdi")
		if courseEl.Length() == 0 || gradeEl.Length() == 0 {
			return
		}

		url := courseEl.AttrOr("href", "")
		internalId := ""
		m := courseIdRegex.FindStringSubmatch(url)
		if m == nil {
			m = internalIdRegex.FindStringSubmatch(url)
		}
		if m != nil {
			internalId = m[1]
			url = fmt.Sprintf("%s/ultra/courses/%s/grades?courseId=%s", baseUrl, internalId, internalId)
		}

		grades = append(grades, Grade{
			Course:     htmlutil.Text(courseEl),
			Grade:      htmlutil.Text(gradeEl),
			Url:        url,
			InternalId: internalId,
			Timestamp:  now.UnixMilli(),
		})
	})
	return grades
}

// ResolveCurrentCourse determines which course a gradebook page belongs
// to: the courseId in the url matched against previously stored courses
// first, then the page's own title elements, then the breadcrumb. Returns
// UnknownCourse when nothing resolves.
func ResolveCurrentCourse(doc *goquery.Document, pageUrl string, known []Course) string {
	if m := courseIdRegex.FindStringSubmatch(pageUrl); m != nil {
		for _, course := range known {
			if course.Url != "" && strings.Contains(course.Url, m[1]) {
				return course.Name
			}
		}
	}

	name := htmlutil.FirstText(doc.Selection,
		".js-course-title-element",
		`h1[data-testid="course-title"]`,
		".base-header-title",
		"header h1",
		".panel-title",
		".subheader a",
	)
	if name != "" {
		return name
	}

	if crumb := htmlutil.FirstText(doc.Selection, ".breadcrumbs a", ".breadcrumb-link"); crumb != "" {
		return crumb
	}

	return UnknownCourse
}

// ExtractAssignments reads the coarse assignment rows of a course
// gradebook page. All rows of one invocation belong to the resolved
// course; the merge engine scopes its upsert by that course.
func ExtractAssignments(doc *goquery.Document, pageUrl string, known []Course) []Assignment {
	if IsGlobalGradesUrl(pageUrl) {
		return nil
	}

	rows := doc.Find(`.tabular-row, [role="row"], .grade-item-row, .sortable_item_row`)
	if rows.Length() == 0 {
		return nil
	}

	course := ResolveCurrentCourse(doc, pageUrl, known)

	var assignments []Assignment
	rows.Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("header") || row.Find("th").Length() > 0 {
			return
		}

		nameEl := htmlutil.FirstMatch(row,
			".js-gradable-item-link",
			".cell-gradable",
			`[data-testid="gradable-item-name"]`,
			"h3",
			"h4",
		)
		if nameEl == nil {
			return
		}
		title := htmlutil.Text(nameEl)
		if title == "" {
			return
		}

		gradeEl := htmlutil.FirstMatch(row,
			".customGradePill bdi",
			".grade-value",
			`[data-testid="grade-pill"]`,
		)

		url := ""
		if goquery.NodeName(nameEl) == "a" {
			url = nameEl.AttrOr("href", "")
		} else if link := nameEl.Find("a"); link.Length() > 0 {
			url = link.AttrOr("href", "")
		}

		assignment := Assignment{
			Title:   title,
			Course:  course,
			Grade:   "N/A",
			DueDate: resolveRowDueDate(row),
			Status:  AssignmentPending,
			Url:     url,
		}
		if gradeEl != nil {
			assignment.Grade = htmlutil.Text(gradeEl)
			assignment.Status = AssignmentGraded
		}
		assignments = append(assignments, assignment)
	})

	return assignments
}

// resolveRowDueDate digs a due date out of an assignment row: a dd/mm
// pattern anywhere in the row text, then the fragment after a due keyword,
// then the row's secondary text.
func resolveRowDueDate(row *goquery.Selection) string {
	rowText := htmlutil.InnerText(row)

	if m := shortDateRegex.FindString(rowText); m != "" {
		return m
	}

	if loc := dueWordRegex.FindStringIndex(rowText); loc != nil {
		rest := strings.TrimSpace(rowText[loc[1]:])
		if rest != "" {
			if runes := []rune(rest); len(runes) > 15 {
				rest = string(runes[:15])
			}
			return strings.TrimSpace(rest)
		}
	}

	if secondary := row.Find(".secondary-text"); secondary.Length() > 0 {
		if m := shortDateRegex.FindString(htmlutil.Text(secondary)); m != "" {
			return m
		}
	}

	return NoDate
}
