package metadiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareIdenticalStrings(t *testing.T) {
	r := Compare("Declarations.h", "same\ncontent\n", "same\ncontent\n")
	assert.True(t, r.Identical)
	assert.Empty(t, r.Unified)
}

func TestCompareReportsUnifiedDiff(t *testing.T) {
	r := Compare("Definitions.cpp", "line1\nline2\n", "line1\nline2-changed\n")
	assert.False(t, r.Identical)
	assert.Contains(t, r.Unified, "--- Definitions.cpp (first compile)")
	assert.Contains(t, r.Unified, "+++ Definitions.cpp (second compile)")
	assert.Equal(t, 1, r.LinesAdded)
	assert.Equal(t, 1, r.LinesRemoved)
}

func TestCompareSetsFindsOnlyDifferingArtefacts(t *testing.T) {
	before := map[string]string{
		"Declarations.h": "same\n",
		"Definitions.cpp": "v1\n",
	}
	after := map[string]string{
		"Declarations.h": "same\n",
		"Definitions.cpp": "v2\n",
	}
	reports := CompareSets(before, after)
	assert.Len(t, reports, 1)
	assert.Equal(t, "Definitions.cpp", reports[0].Name)
}

func TestCompareSetsFlagsMissingArtefact(t *testing.T) {
	before := map[string]string{"A.h": "x\n"}
	after := map[string]string{}
	reports := CompareSets(before, after)
	assert.Len(t, reports, 1)
	assert.Contains(t, reports[0].Unified, "missing from second compile")
}

func TestIsIdempotentEmptyReports(t *testing.T) {
	assert.True(t, IsIdempotent(nil))
	assert.False(t, IsIdempotent([]Report{{Name: "x"}}))
}
