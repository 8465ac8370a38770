package blackboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const assignmentFormPage = `<html><body>
<div id="dataCollectionContainer">
  <ol id="stepcontent1">
    <li>
      <div class="label">Instrucciones</div>
      <div class="field">
        <p>Lea el capítulo 3 y responda las preguntas.</p>
        <img src="/images/diagrama.png" alt="diagrama">
        <span class="fieldErrorText">   </span>
      </div>
    </li>
    <li>
      <div class="label">Recursos</div>
      <div class="field"><a href="https://example.edu/doc.pdf">doc.pdf</a><script>alert(1)</script></div>
    </li>
    <li><div class="label">Sin campo</div></li>
  </ol>
</div>
</body></html>`

func TestExtractInstructions(t *testing.T) {
	sections := ExtractInstructions(parseDoc(t, assignmentFormPage), "https://portal.example.edu")
	require.Len(t, sections, 2)

	require.Equal(t, "Instrucciones", sections[0].Title)
	require.Contains(t, sections[0].Html, `src="https://portal.example.edu/images/diagrama.png"`)
	require.Contains(t, sections[0].Html, "<p>Lea el capítulo 3 y responda las preguntas.</p>")
	require.NotContains(t, sections[0].Html, "fieldErrorText")
	require.Contains(t, sections[0].Text, "Lea el capítulo 3")

	require.Equal(t, "Recursos", sections[1].Title)
	require.Contains(t, sections[1].Html, `href="https://example.edu/doc.pdf"`)
	require.NotContains(t, sections[1].Html, "script")
}

func TestExtractInstructionsWithoutOrigin(t *testing.T) {
	sections := ExtractInstructions(parseDoc(t, assignmentFormPage), "")
	require.Len(t, sections, 2)
	require.Contains(t, sections[0].Html, `src="/images/diagrama.png"`)
}

func TestExtractInstructionsAbsent(t *testing.T) {
	require.Nil(t, ExtractInstructions(parseDoc(t, "<div></div>"), ""))
}
