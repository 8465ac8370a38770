package blackboard

import (
	"regexp"
	"strings"
	"time"

	"goodboard-backend/lib/htmlutil"
	"goodboard-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	internalIdRegex = regexp.MustCompile(`courses/(_[\d_]+)`)
	courseIdRegex   = regexp.MustCompile(`course_id=(_[\d_]+)`)
	// human course codes look like INGE2024A-GRP1
	courseCodeRegex   = regexp.MustCompile(`[A-Z]{4,5}[0-9]{4}[A-Z]?-[A-Z0-9]+`)
	outlineUrlRegex   = regexp.MustCompile(`/ultra/courses/_[0-9]+_1/?$`)
	instructorsPrefix = regexp.MustCompile(`(?i)Instructors:|Profesores:`)
)

// courseSet accumulates courses across extractors within one pass,
// upserting by identity key and patching in better professor/internal-id
// data as later extractors observe the same course.
type courseSet struct {
	order []string
	byKey map[string]Course
}

func newCourseSet() *courseSet {
	return &courseSet{byKey: map[string]Course{}}
}

func (s *courseSet) add(course Course) {
	key := course.Key()
	if key == "" {
		return
	}

	existing, ok := s.byKey[key]
	if !ok {
		s.order = append(s.order, key)
		s.byKey[key] = course
		return
	}

	patched := false
	if (existing.Professor == "" || existing.Professor == NoProfessor) &&
		course.Professor != "" && course.Professor != NoProfessor {
		patched = true
	}
	if existing.InternalId == "" && course.InternalId != "" {
		patched = true
	}
	if patched {
		merged := course
		if merged.Professor == "" || merged.Professor == NoProfessor {
			merged.Professor = existing.Professor
		}
		if merged.InternalId == "" {
			merged.InternalId = existing.InternalId
		}
		if merged.Id == "" {
			merged.Id = existing.Id
		}
		if merged.Url == "" {
			merged.Url = existing.Url
		}
		s.byKey[key] = merged
	}
}

func (s *courseSet) list() []Course {
	out := make([]Course, len(s.order))
	for i, key := range s.order {
		out[i] = s.byKey[key]
	}
	return out
}

// ExtractCourses pools the card, link and message-page course extractors.
// All three run unconditionally; non-matching layouts contribute nothing.
func ExtractCourses(doc *goquery.Document, now time.Time) []Course {
	set := newCourseSet()
	extractCourseCards(doc, set, now)
	extractCourseLinks(doc, set, now)
	extractMessageCourses(doc, set, now)
	return set.list()
}

func extractCourseCards(doc *goquery.Document, set *courseSet, now time.Time) {
	cards := doc.Find(`bb-base-course-card, .course-element-card, li[data-course-id], div[role="row"]`)
	cards.Each(func(_ int, card *goquery.Selection) {
		// header rows of the course list aren't courses
		if card.HasClass("js-course-list-header") || card.Find("h2").Length() > 0 {
			if card.Find(".js-course-title-element").Length() == 0 {
				return
			}
		}

		titleEl := htmlutil.FirstMatch(card,
			".js-course-title-element",
			"h3 a",
			".course-title",
			`a[href*="/ultra/courses/"]`,
			".name",
		)
		if titleEl == nil {
			return
		}
		name := htmlutil.Text(titleEl)
		if name == "" {
			return
		}

		linkEl := htmlutil.FirstMatch(card, "a.course-title", `a[href*="/ultra/courses/"]`)
		url := ""
		if linkEl != nil {
			url = linkEl.AttrOr("href", "")
		} else if goquery.NodeName(titleEl) == "a" {
			url = titleEl.AttrOr("href", "")
		}

		internalId := ""
		if m := internalIdRegex.FindStringSubmatch(url); m != nil {
			internalId = m[1]
		}

		id := ""
		if idEl := htmlutil.FirstMatch(card, ".multi-column-course-id", ".course-id"); idEl != nil {
			id = htmlutil.Text(idEl)
		} else if m := courseCodeRegex.FindString(htmlutil.InnerText(card)); m != "" {
			id = m
		}

		professor := NoProfessor
		instructorEl := htmlutil.FirstMatch(card,
			".instructors bb-ui-username bdi",
			`.instructors [class*="makeStylesbaseText"]`,
			".instructors .user-name",
		)
		if instructorEl != nil {
			professor = htmlutil.Text(instructorEl)
		} else if container := card.Find(".instructors"); container.Length() > 0 {
			text := strings.TrimSpace(instructorsPrefix.ReplaceAllString(htmlutil.Text(container), ""))
			if text != "" {
				professor = text
			}
		}

		set.add(Course{
			Name:       name,
			Id:         id,
			InternalId: internalId,
			Professor:  professor,
			Url:        url,
			Timestamp:  now.UnixMilli(),
		})
	})
}

// extractCourseLinks picks up bare links to course outlines anywhere on
// the page, deriving as much context as the surrounding row offers.
func extractCourseLinks(doc *goquery.Document, set *courseSet, now time.Time) {
	doc.Find(`a[href*="/ultra/courses/_"]`).Each(func(_ int, link *goquery.Selection) {
		url := link.AttrOr("href", "")
		if !strings.Contains(url, "/cl/outline") && !outlineUrlRegex.MatchString(url) {
			return
		}
		name := htmlutil.Text(link)
		if name == "" {
			return
		}

		internalId := ""
		if m := internalIdRegex.FindStringSubmatch(url); m != nil {
			internalId = m[1]
		}

		id := ""
		card := link.Closest(`div[role="row"]`)
		if card.Length() == 0 {
			card = link.Closest("li")
		}
		if card.Length() == 0 {
			card = link.Closest(".course-element-card")
		}
		if card.Length() > 0 {
			id = courseCodeRegex.FindString(htmlutil.InnerText(card))
		}

		set.add(Course{
			Name:       name,
			Id:         id,
			InternalId: internalId,
			Professor:  NoProfessor,
			Url:        url,
			Timestamp:  now.UnixMilli(),
		})
	})
}

// extractMessageCourses reads the conversation summaries on the messages
// page, which name courses the card extractors never see.
func extractMessageCourses(doc *goquery.Document, set *courseSet, now time.Time) {
	doc.Find("bb-course-conversations-summary").Each(func(_ int, card *goquery.Selection) {
		titleEl := card.Find("h2.title a")
		url := titleEl.AttrOr("href", "")
		if url == "" {
			return
		}

		// the anchor nests a decoration span; take only the text outside it
		name := textutil.CollapseWhitespace(titleEl.Contents().Not("span").Text())
		if name == "" {
			return
		}

		internalId := ""
		if m := internalIdRegex.FindStringSubmatch(url); m != nil {
			internalId = m[1]
		}

		id := ""
		if idEl := card.Find("div.subtitle span bdi"); idEl.Length() > 0 {
			id = htmlutil.Text(idEl)
		}

		set.add(Course{
			Name:       name,
			Id:         id,
			InternalId: internalId,
			Professor:  "",
			Url:        url,
			Timestamp:  now.UnixMilli(),
		})
	})
}
