package blackboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const globalGradesPage = `
<div>
  <div class="element-card">
    <div class="subheader"><a href="/webapps/tool?course_id=_441_1&legacyUrl=x">Programación Web I</a></div>
    <span class="customGradePill"><bdi>9.5/10</bdi></span>
  </div>
  <div class="element-card">
    <div class="subheader"><a href="/ultra/courses/_502_1/outline">Historia del Arte</a></div>
    <span class="customGradePill"><bdi>95%</bdi></span>
  </div>
  <div class="element-card">
    <div class="subheader"><a href="/no/id/here">Sin Calificación</a></div>
  </div>
</div>`

func TestExtractGrades(t *testing.T) {
	grades := ExtractGrades(parseDoc(t, globalGradesPage), "https://portal.example.edu", fixedNow)
	require.Len(t, grades, 2)

	require.Equal(t, "Programación Web I", grades[0].Course)
	require.Equal(t, "9.5/10", grades[0].Grade)
	require.Equal(t, "_441_1", grades[0].InternalId)
	require.Equal(t,
		"https://portal.example.edu/ultra/courses/_441_1/grades?courseId=_441_1",
		grades[0].Url,
	)

	require.Equal(t, "Historia del Arte", grades[1].Course)
	require.Equal(t, "95%", grades[1].Grade)
	require.Equal(t, "_502_1", grades[1].InternalId)
}

func TestIsGlobalGradesUrl(t *testing.T) {
	require.True(t, IsGlobalGradesUrl("https://portal.example.edu/ultra/grades"))
	require.False(t, IsGlobalGradesUrl("https://portal.example.edu/ultra/courses/_441_1/grades?courseId=_441_1"))
	require.False(t, IsGlobalGradesUrl("https://portal.example.edu/ultra/stream"))
}

const courseGradebookPage = `
<div>
  <div class="tabular-row header"><th>Elemento</th></div>
  <div class="tabular-row">
    <a class="js-gradable-item-link" href="/ultra/courses/_441_1/assessment/1">Tarea 1</a>
    <span class="customGradePill"><bdi>9</bdi></span>
    <span class="secondary-text">Fecha de entrega: 12/10/2024</span>
  </div>
  <div class="tabular-row">
    <h4>Examen Final</h4>
    <span class="secondary-text">vence pronto</span>
  </div>
</div>`

func TestExtractAssignments(t *testing.T) {
	known := []Course{{
		Name: "Programación Web I",
		Url:  "https://portal.example.edu/ultra/courses/_441_1/grades?courseId=_441_1",
	}}
	url := "https://portal.example.edu/ultra/courses/_441_1/grades?courseId=_441_1"

	assignments := ExtractAssignments(parseDoc(t, courseGradebookPage), url, known)
	require.Len(t, assignments, 2)

	require.Equal(t, "Tarea 1", assignments[0].Title)
	require.Equal(t, "Programación Web I", assignments[0].Course)
	require.Equal(t, "9", assignments[0].Grade)
	require.Equal(t, "12/10/2024", assignments[0].DueDate)
	require.Equal(t, AssignmentGraded, assignments[0].Status)
	require.Equal(t, "/ultra/courses/_441_1/assessment/1", assignments[0].Url)

	require.Equal(t, "Examen Final", assignments[1].Title)
	require.Equal(t, "N/A", assignments[1].Grade)
	require.Equal(t, AssignmentPending, assignments[1].Status)
	require.Equal(t, "pronto", assignments[1].DueDate)
}

func TestExtractAssignmentsSkipsGlobalPage(t *testing.T) {
	assignments := ExtractAssignments(
		parseDoc(t, courseGradebookPage),
		"https://portal.example.edu/ultra/grades",
		nil,
	)
	require.Empty(t, assignments)
}

func TestResolveCurrentCourse(t *testing.T) {
	known := []Course{{Name: "Programación Web I", Url: "/ultra/courses/_441_1/grades?courseId=_441_1"}}

	// stored course wins over the page header
	page := parseDoc(t, `<header><h1>Otra Cosa</h1></header>`)
	name := ResolveCurrentCourse(page, "/ultra/courses/_441_1/grades?courseId=_441_1", known)
	require.Equal(t, "Programación Web I", name)

	// no stored match falls back to the page's own title elements
	name = ResolveCurrentCourse(page, "/ultra/courses/_999_1/grades?courseId=_999_1", known)
	require.Equal(t, "Otra Cosa", name)

	// nothing resolvable at all
	name = ResolveCurrentCourse(parseDoc(t, `<div></div>`), "/somewhere", nil)
	require.Equal(t, UnknownCourse, name)
}
