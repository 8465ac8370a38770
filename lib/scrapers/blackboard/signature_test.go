package blackboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignatureAndTaskId(t *testing.T) {
	sig := signature("Examen Parcial", "Cálculo", "12/10")
	require.Equal(t, "Examen Parcial-Cálculo-12/10", sig)
	require.Equal(t, "bb-grid-Examen-Parcial-C-lculo-12-10", taskId("bb-grid-", sig))
}

func TestSignatureDistinctTriples(t *testing.T) {
	a := signature("Tarea", "Curso A", "12/10")
	b := signature("Tarea", "Curso B", "12/10")
	require.NotEqual(t, a, b)
}

func TestSeenSetClaim(t *testing.T) {
	seen := seenSet{}
	require.True(t, seen.claim("k"))
	require.False(t, seen.claim("k"))
	require.True(t, seen.has("k"))
	require.False(t, seen.has("other"))
	require.True(t, seen.claim("other"))
}
