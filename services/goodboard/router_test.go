package goodboard

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"goodboard-backend/lib/kvstore"
	"goodboard-backend/lib/scrapers/blackboard"
)

func parsePage(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

const calendarPage = `<html><body>
<div class="fc-view-container">
  <div class="element-card due-item course-color-3">
    <div class="element-details">
      <div class="name"><a href="#">Foro Semana 5</a></div>
      <div class="content"><a href="#">Programación Web I</a><span>Vencimiento: 15/11/2024</span></div>
    </div>
  </div>
</div>
</body></html>`

const globalGradesRouterPage = `<html><body>
<div class="element-card">
  <div class="subheader"><a href="/webapps/blackboard/execute/modulepage?course_id=_441_1&foo=1">Programación Web I</a></div>
  <span class="customGradePill"><bdi>9.5/10</bdi></span>
</div>
</body></html>`

const courseLinksPage = `<html><body>
<a href="https://portal.example.edu/ultra/courses/_441_1/cl/outline">Programación Web I</a>
</body></html>`

const detailFramePage = `<html><body>
<div id="courseMenu_link">Historia del Arte</div>
<div class="sortable_item_row">
  <div class="cell gradable"><a onclick="loadContentFrame('x');">Ensayo 1</a></div>
  <div class="cell grade"><span class="grade">8</span></div>
</div>
</body></html>`

func TestRouteCalendar(t *testing.T) {
	ctx := context.Background()
	merger, store := newTestMerger(t)
	router := NewRouter(merger, store)

	err := router.Route(ctx, parsePage(t, calendarPage), "https://portal.example.edu/ultra/calendar")
	require.NoError(t, err)

	tasks := storedTasks(t, store)
	require.Len(t, tasks, 1)
	require.Equal(t, "Foro Semana 5", tasks[0].Title)
	require.Equal(t, "15/11/2024", tasks[0].Date)
	require.Equal(t, "Programación Web I", tasks[0].Course)
}

func TestRouteCalendarStillLoading(t *testing.T) {
	ctx := context.Background()
	merger, store := newTestMerger(t)
	router := NewRouter(merger, store)

	existing := []blackboard.Task{{Id: "t1", Title: "Tarea 1"}}
	require.NoError(t, kvstore.SetJSON(ctx, store, KeyTasks, existing))

	// without the calendar shell in the DOM nothing may be committed
	err := router.Route(ctx, parsePage(t, "<html><body><p>cargando</p></body></html>"),
		"https://portal.example.edu/ultra/calendar")
	require.NoError(t, err)
	require.Equal(t, existing, storedTasks(t, store))
}

func TestRouteGlobalGrades(t *testing.T) {
	ctx := context.Background()
	merger, store := newTestMerger(t)
	router := NewRouter(merger, store)

	err := router.Route(ctx, parsePage(t, globalGradesRouterPage), "https://portal.example.edu/ultra/grades")
	require.NoError(t, err)

	grades, _, err := kvstore.GetJSON[[]blackboard.Grade](ctx, store, KeyGrades)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	require.Equal(t, "9.5/10", grades[0].Grade)
	require.Equal(t, "https://portal.example.edu/ultra/courses/_441_1/grades?courseId=_441_1", grades[0].Url)

	// the global page contributes no per-course assignment rows
	_, ok, err := kvstore.GetJSON[[]blackboard.Assignment](ctx, store, KeyAssignments)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRouteCourses(t *testing.T) {
	ctx := context.Background()
	merger, store := newTestMerger(t)
	router := NewRouter(merger, store)

	err := router.Route(ctx, parsePage(t, courseLinksPage), "https://portal.example.edu/ultra/courses")
	require.NoError(t, err)

	courses, _, err := kvstore.GetJSON[[]blackboard.Course](ctx, store, KeyCourses)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "Programación Web I", courses[0].Name)
	require.Equal(t, "_441_1", courses[0].InternalId)
}

func TestRouteDetectsDetailFrame(t *testing.T) {
	ctx := context.Background()
	merger, store := newTestMerger(t)
	router := NewRouter(merger, store)

	// the frame url carries no routing hint at all
	err := router.Route(ctx, parsePage(t, detailFramePage), "https://portal.example.edu/webapps/bb-frame?legacyUrl=x")
	require.NoError(t, err)

	detail, ok, err := kvstore.GetJSON[blackboard.CourseDetail](ctx, store, DetailKey("Historia del Arte"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Historia del Arte", detail.Title)
	require.Len(t, detail.Grades, 1)
	require.Equal(t, "Ensayo 1", detail.Grades[0].Title)
}

func TestRouterDebounce(t *testing.T) {
	ctx := context.Background()
	merger, store := newTestMerger(t)
	router := NewRouter(merger, store)
	router.SetDebounce(20 * time.Millisecond)
	defer router.Stop()

	var superseded, fired atomic.Int32
	router.Trigger(ctx, func() (*goquery.Document, string, error) {
		superseded.Add(1)
		return parsePage(t, calendarPage), "https://portal.example.edu/ultra/calendar", nil
	})
	router.Trigger(ctx, func() (*goquery.Document, string, error) {
		fired.Add(1)
		return parsePage(t, calendarPage), "https://portal.example.edu/ultra/calendar", nil
	})

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 10*time.Millisecond)
	require.Equal(t, int32(0), superseded.Load())
	require.Len(t, storedTasks(t, store), 1)
}
