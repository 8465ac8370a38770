package blackboard

import (
	"regexp"
	"strings"

	"goodboard-backend/lib/htmlutil"
	"goodboard-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// CalendarResult is the pooled output of every calendar extractor plus the
// raw event count, which lets the merge engine tell "nothing to scrape"
// apart from "scrape failed".
type CalendarResult struct {
	Tasks []Task
	// RawEventCount is the number of raw event nodes present in the DOM,
	// whether or not any extractor could parse them.
	RawEventCount int
}

// ExtractCalendar runs every calendar layout extractor against the
// document and pools their tasks. Extractors are cheap no-ops on layouts
// they don't recognize. The two heuristic tiers only run when the
// structured extractors came up short: the link heuristic at zero results,
// the aggressive line-splitting tier below five.
func ExtractCalendar(doc *goquery.Document) CalendarResult {
	seen := seenSet{}
	var tasks []Task

	tasks = append(tasks, extractCalendarList(doc, seen)...)
	tasks = append(tasks, harvestEvents(doc, seen, gridLayout{})...)
	tasks = append(tasks, harvestEvents(doc, seen, ultraListLayout{})...)
	tasks = append(tasks, harvestEvents(doc, seen, ultraGenericLayout{})...)

	if len(tasks) == 0 {
		tasks = append(tasks, extractLinkHeuristic(doc, seen)...)
	}
	if len(tasks) < 5 {
		tasks = append(tasks, extractAggressive(doc, seen)...)
	}

	return CalendarResult{
		Tasks:         tasks,
		RawEventCount: doc.Find(".fc-event").Length(),
	}
}

// calendarLayout is the capability set one event layout family implements.
// Each method is a fallback chain over that family's markup; all of them
// are total.
type calendarLayout interface {
	family() string
	description() string
	items(doc *goquery.Document) *goquery.Selection
	skip(item *goquery.Selection) bool
	findTitle(item *goquery.Selection) string
	findDate(doc *goquery.Document, item *goquery.Selection) string
	findCourse(item *goquery.Selection) string
	findColor(item *goquery.Selection) Color
	// signature composes the dedup key for this family; grid layouts
	// scope it by course, ultra layouts do not.
	signature(title, course, date string) string
}

func harvestEvents(doc *goquery.Document, seen seenSet, layout calendarLayout) []Task {
	var tasks []Task
	layout.items(doc).Each(func(_ int, item *goquery.Selection) {
		if layout.skip(item) {
			return
		}
		title := layout.findTitle(item)
		if title == "" {
			return
		}

		date := layout.findDate(doc, item)
		course := layout.findCourse(item)

		sig := layout.signature(title, course, date)
		if !seen.claim(sig) {
			return
		}

		tasks = append(tasks, Task{
			Id:          taskId(layout.family(), sig),
			Title:       title,
			Date:        date,
			Course:      course,
			Color:       layout.findColor(item),
			Status:      TaskTodo,
			Description: layout.description(),
		})
	})
	return tasks
}

// extractCalendarList handles the agenda list view: date heading rows
// interleaved with item rows, where an item inherits the most recently
// seen heading as its date.
func extractCalendarList(doc *goquery.Document, seen seenSet) []Task {
	var tasks []Task
	currentDate := NoDate

	doc.Find(".fc-list-table tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("fc-list-heading") {
			heading := row.AttrOr("data-date", "")
			if heading == "" {
				heading = htmlutil.Text(row.Find(".fc-list-heading-main"))
			}
			if heading == "" {
				heading = htmlutil.Text(row)
			}
			currentDate = heading
			return
		}
		if !row.HasClass("fc-list-item") {
			return
		}

		title := htmlutil.Text(row.Find(".fc-list-item-title"))
		if title == "" {
			return
		}

		date := currentDate
		if clock := htmlutil.Text(row.Find(".fc-list-item-time")); clock != "" {
			date = currentDate + " - " + clock
		}

		color := ColorBlue
		dot := row.Find(".fc-list-item-marker span.fc-event-dot")
		if token := htmlutil.ClassWithPrefix(dot, "course-color-"); token != "" {
			if mapped, ok := colorMap[token]; ok {
				color = mapped
			}
		}

		sig := signature(title, date)
		if !seen.claim(sig) {
			return
		}

		tasks = append(tasks, Task{
			Id:          taskId("bb-list-", sig),
			Title:       title,
			Date:        date,
			Course:      "Blackboard Event",
			Color:       color,
			Status:      TaskTodo,
			Description: "Importado de Agenda",
		})
	})

	return tasks
}

// gridLayout covers the month/week grid views rendered as .fc-event
// blocks positioned inside day cells.
type gridLayout struct{}

func (gridLayout) family() string      { return "bb-grid-" }
func (gridLayout) description() string { return "Importado de Calendario" }

func (gridLayout) items(doc *goquery.Document) *goquery.Selection {
	return doc.Find(".fc-event")
}

func (gridLayout) skip(item *goquery.Selection) bool {
	return item.Closest(".fc-list-table").Length() > 0
}

func (gridLayout) findTitle(item *goquery.Selection) string {
	return htmlutil.Text(item.Find(".fc-title"))
}

// findDate resolves the event's date from its own attributes first, then
// its day cell, then by mapping its column index onto the day header row.
// The header row sometimes omits the time axis column the body counts, so
// a miss at the exact index retries one column to the left.
func (gridLayout) findDate(doc *goquery.Document, item *goquery.Selection) string {
	date := item.AttrOr("data-start", "")
	if date == "" {
		date = item.AttrOr("data-date", "")
	}
	if date == "" {
		if cell := item.Closest("td[data-date]"); cell.Length() > 0 {
			date = cell.AttrOr("data-date", "")
		}
	}
	if date == "" {
		date = gridLayout{}.dateFromColumn(doc, item)
	}
	if date == "" {
		date = NoDate
	}

	if timeEl := htmlutil.FirstMatch(item, ".dueDate", ".fc-time"); timeEl != nil {
		clock := textutil.CleanDate(htmlutil.Text(timeEl))
		if date == NoDate {
			date = clock
		} else if clock != "" && !strings.Contains(date, clock) {
			date += " " + clock
		}
	}
	return date
}

func (gridLayout) dateFromColumn(doc *goquery.Document, item *goquery.Selection) string {
	col := item.Closest("td")
	if col.Length() == 0 {
		return ""
	}
	colIndex := col.Index()
	if colIndex < 0 {
		return ""
	}

	// scope headers to the surrounding view so multiple rendered views
	// don't conflict
	headers := doc.Find(".fc-day-header")
	if view := item.Closest(".fc-view"); view.Length() > 0 {
		headers = view.Find(".fc-day-header")
	}

	header := headers.Eq(colIndex)
	if header.Length() == 0 && colIndex > 0 {
		header = headers.Eq(colIndex - 1)
	}
	if header.Length() == 0 {
		return ""
	}
	if date := header.AttrOr("data-date", ""); date != "" {
		return date
	}
	return htmlutil.Text(header)
}

func (gridLayout) findCourse(item *goquery.Selection) string {
	courseEl := item.Find(".calendarName")
	if courseEl.Length() == 0 {
		return "General"
	}
	course := htmlutil.Text(courseEl)
	if idx := strings.Index(course, ":"); idx != -1 {
		course = strings.TrimSpace(course[idx+1:])
	}
	return course
}

func (gridLayout) findColor(item *goquery.Selection) Color {
	if mapped, ok := colorMap[htmlutil.ClassWithPrefix(item, "course-color-")]; ok {
		return mapped
	}
	return ColorBlue
}

func (gridLayout) signature(title, course, date string) string {
	return signature(title, course, date)
}

// ultraListLayout covers the Ultra "due soon" card list.
type ultraListLayout struct{}

func (ultraListLayout) family() string      { return "bb-ultra-list-" }
func (ultraListLayout) description() string { return "Importado de Agenda Ultra" }

func (ultraListLayout) items(doc *goquery.Document) *goquery.Selection {
	return doc.Find(".element-card.due-item")
}

func (ultraListLayout) skip(item *goquery.Selection) bool { return false }

func (ultraListLayout) findTitle(item *goquery.Selection) string {
	return htmlutil.Text(item.Find(".element-details .name a"))
}

func (ultraListLayout) findDate(doc *goquery.Document, item *goquery.Selection) string {
	dateEl := item.Find(".element-details .content span")
	if dateEl.Length() == 0 {
		return NoDate
	}
	return textutil.CleanDate(htmlutil.Text(dateEl))
}

func (ultraListLayout) findCourse(item *goquery.Selection) string {
	courseEl := item.Find(".element-details .content a")
	if courseEl.Length() == 0 {
		return "General"
	}
	return htmlutil.Text(courseEl)
}

func (ultraListLayout) findColor(item *goquery.Selection) Color {
	if mapped, ok := colorMap[htmlutil.ClassWithPrefix(item, "course-color-")]; ok {
		return mapped
	}
	return ColorBlue
}

func (ultraListLayout) signature(title, course, date string) string {
	return signature(title, course, date)
}

// ultraGenericLayout matches the broad set of shapes the Ultra calendar
// has shipped under, including ARIA list items.
type ultraGenericLayout struct{}

func (ultraGenericLayout) family() string      { return "bb-ultra-" }
func (ultraGenericLayout) description() string { return "Importado de Ultra Calendario" }

func (ultraGenericLayout) items(doc *goquery.Document) *goquery.Selection {
	return doc.Find(`[data-testid="calendar-event-item"], .bb-calendar-event, .element-card.event, .fc-event, [role="listitem"]`)
}

func (ultraGenericLayout) skip(item *goquery.Selection) bool {
	// already handled by the list and due-item extractors
	return item.Closest(".fc-list-table").Length() > 0 || item.HasClass("due-item")
}

func (ultraGenericLayout) findTitle(item *goquery.Selection) string {
	return htmlutil.FirstText(item, "h3", ".title", ".event-title", `[data-testid="event-title"]`)
}

func (ultraGenericLayout) findDate(doc *goquery.Document, item *goquery.Selection) string {
	raw := htmlutil.FirstText(item, ".date", ".time", ".timestamp", `[data-testid="event-date"]`)
	if raw == "" {
		return NoDate
	}
	return textutil.CleanDate(raw)
}

func (ultraGenericLayout) findCourse(item *goquery.Selection) string {
	course := htmlutil.FirstText(item, ".course-name", ".context", `[data-testid="event-course"]`)
	if course == "" {
		return "Blackboard Event"
	}
	return course
}

func (ultraGenericLayout) findColor(item *goquery.Selection) Color { return ColorBlue }

func (ultraGenericLayout) signature(title, course, date string) string {
	return signature(title, date)
}

var (
	shortDateRegex = regexp.MustCompile(`\d{1,2}/\d{1,2}(/\d{2,4})?`)
	dueWordRegex   = regexp.MustCompile(`(?i)vence|due`)
	titleSplitter  = regexp.MustCompile(`\n| - `)
)

// extractLinkHeuristic is the zero-result fallback: any anchor carrying a
// course_id query parameter whose text looks date- or due-related becomes
// a low-confidence task.
func extractLinkHeuristic(doc *goquery.Document, seen seenSet) []Task {
	var tasks []Task
	doc.Find(`a[href*="course_id"]`).Each(func(_ int, link *goquery.Selection) {
		text := htmlutil.InnerText(link)
		if !shortDateRegex.MatchString(text) && !dueWordRegex.MatchString(text) {
			return
		}

		title := strings.TrimSpace(titleSplitter.Split(text, 2)[0])
		if title == "" {
			return
		}
		date := "Pendiente"
		if m := shortDateRegex.FindString(text); m != "" {
			date = m
		}

		sig := signature(title, date)
		if !seen.claim(sig) {
			return
		}

		tasks = append(tasks, Task{
			Id:          taskId("bb-fallback-", sig),
			Title:       title,
			Date:        date,
			Course:      "Evento Detectado",
			Color:       ColorOrange,
			Status:      TaskTodo,
			Description: "Detectado por heurística",
		})
	})
	return tasks
}

var digitRegex = regexp.MustCompile(`\d`)

// extractAggressive is the last-resort tier: the first text line of each
// raw event is the title, and the first remaining line containing a digit
// or colon is taken as the date.
func extractAggressive(doc *goquery.Document, seen seenSet) []Task {
	var tasks []Task
	doc.Find(".fc-event").Each(func(_ int, event *goquery.Selection) {
		text := htmlutil.InnerText(event)
		if text == "" {
			return
		}

		var parts []string
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				parts = append(parts, line)
			}
		}
		if len(parts) == 0 {
			return
		}

		title := parts[0]
		date := NoDate
		for _, part := range parts {
			if strings.Contains(part, ":") || digitRegex.MatchString(part) {
				date = part
				break
			}
		}
		date = textutil.CleanDate(date)

		sig := signature(title, date)
		if !seen.claim(sig) {
			return
		}

		tasks = append(tasks, Task{
			Id:          taskId("bb-aggressive-", sig),
			Title:       title,
			Date:        date,
			Course:      "Evento General",
			Color:       ColorGray,
			Status:      TaskTodo,
			Description: "Recuperado por fuerza bruta",
		})
	})
	return tasks
}
