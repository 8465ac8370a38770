package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	return d
}

func TestInnerText(t *testing.T) {
	d := doc(t, `<div id="root">
		<h3>  Tarea   1 </h3>
		<div>Fecha de entrega: 12/10</div>
		line<br>break
	</div>`)

	text := InnerText(d.Find("#root"))
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	require.Equal(t, []string{"Tarea 1", "Fecha de entrega: 12/10", "line", "break"}, lines)
}

func TestFirstText(t *testing.T) {
	d := doc(t, `<div>
		<span class="b">fallback</span>
		<span class="c">tertiary</span>
	</div>`)

	require.Equal(t, "fallback", FirstText(d.Selection, ".a", ".b", ".c"))
	require.Equal(t, "", FirstText(d.Selection, ".a", ".missing"))
}

func TestFirstMatchOrder(t *testing.T) {
	d := doc(t, `<div><i class="second">2</i><i class="first">1</i></div>`)
	found := FirstMatch(d.Selection, ".first", ".second")
	require.NotNil(t, found)
	require.Equal(t, "1", found.Text())
}

func TestClassWithPrefix(t *testing.T) {
	d := doc(t, `<span class="fc-event course-color-4 selected"></span>`)
	require.Equal(t, "course-color-4", ClassWithPrefix(d.Find("span"), "course-color-"))
	require.Equal(t, "", ClassWithPrefix(d.Find("span"), "palette-"))
}

func TestSanitize(t *testing.T) {
	dirty := `<p>ok</p><script type="text/javascript">alert(1)</script><a href="javascript:run()">x</a>`
	clean := Sanitize(dirty)
	require.NotContains(t, clean, "<script")
	require.NotContains(t, clean, "javascript:")
	require.Contains(t, clean, "<p>ok</p>")
}
