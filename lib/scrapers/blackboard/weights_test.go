package blackboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseWeights(t *testing.T) {
	weights := ParseWeights("Promedio ponderado de Tarea 1 (10%), Examen Final (30%)")
	expected := map[string]string{
		"Tarea 1":      "10",
		"Examen Final": "30",
	}
	require.Empty(t, cmp.Diff(expected, weights))
}

func TestParseWeightsDecimalsAndFinalLabel(t *testing.T) {
	weights := ParseWeights("Calificación Final Promedio ponderado de Quiz (12.5%), Foros (87.5%)")
	expected := map[string]string{
		"Quiz":  "12.5",
		"Foros": "87.5",
	}
	require.Empty(t, cmp.Diff(expected, weights))
}

func TestParseWeightsNoEntries(t *testing.T) {
	require.Empty(t, ParseWeights(""))
	require.Empty(t, ParseWeights("Sin criterios definidos"))
}

const criteriaControlPage = `<html><body>
<input type="button" value="Criterios de calificación"
  onclick="mygrades.showInLightBox( 'Criterios de calificación', 'Promedio ponderado de Tarea 1 (10%), Examen Final (30%), Foros (60%)', 'w');" />
</body></html>`

const criteriaInlinePage = `<html><body>
<div class="gradingCriteria">
  <p>Promedio ponderado de Examen (50%), Proyecto (50%)</p>
</div>
</body></html>`

func TestFindCriteriaTextFromControl(t *testing.T) {
	text := FindCriteriaText(parseDoc(t, criteriaControlPage))
	expected := map[string]string{
		"Tarea 1":      "10",
		"Examen Final": "30",
		"Foros":        "60",
	}
	require.Empty(t, cmp.Diff(expected, ParseWeights(text)))
}

func TestFindCriteriaTextFromPageScan(t *testing.T) {
	text := FindCriteriaText(parseDoc(t, criteriaInlinePage))
	expected := map[string]string{
		"Examen":   "50",
		"Proyecto": "50",
	}
	require.Empty(t, cmp.Diff(expected, ParseWeights(text)))
}

func TestFindCriteriaTextAbsent(t *testing.T) {
	require.Empty(t, FindCriteriaText(parseDoc(t, "<html><body><p>nada</p></body></html>")))
}
