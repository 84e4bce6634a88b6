package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmpp/ompp-core/internal/diag"
	"github.com/openmpp/ompp-core/internal/symtab"
)

func TestRunCreateMissingSymbolsFlagsUnresolvedPlaceholder(t *testing.T) {
	a := symtab.NewArena()
	a.GetOrCreate("Ghost", diag.Location{File: "m.mpp", Line: 1})

	res, err := Run(a)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Diagnostics.ErrorCount())
}

func TestBoolEnumSynthesizesEnumerators(t *testing.T) {
	a := symtab.NewArena()
	a.GetOrCreate("BOOL", diag.Location{})
	_, err := a.Morph("BOOL", symtab.KindBoolEnum, diag.Location{})
	require.NoError(t, err)

	_, err = Run(a)
	require.NoError(t, err)

	assert.NotNil(t, a.Find("BOOL::false"))
	assert.NotNil(t, a.Find("BOOL::true"))
}

func TestGroupCycleDetection(t *testing.T) {
	a := symtab.NewArena()
	g1 := a.GetOrCreate("G1", diag.Location{})
	g1.Kind = symtab.KindParameterGroup
	g1.Group = &symtab.GroupPayload{Members: []string{"G2"}}

	g2 := a.GetOrCreate("G2", diag.Location{})
	g2.Kind = symtab.KindParameterGroup
	g2.Group = &symtab.GroupPayload{Members: []string{"G1"}}

	res, err := Run(a)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Diagnostics.ErrorCount(), 1)
}

func TestPopulateCollectionsSeparatesKinds(t *testing.T) {
	a := symtab.NewArena()
	p := a.GetOrCreate("Alpha", diag.Location{})
	p.Kind = symtab.KindParameter
	p.Parameter = &symtab.ParameterPayload{}

	tbl := a.GetOrCreate("T1", diag.Location{})
	tbl.Kind = symtab.KindEntityTable
	tbl.Table = &symtab.TablePayload{Rank: 0}

	res, err := Run(a)
	require.NoError(t, err)
	require.Len(t, res.Collections.Parameters, 1)
	require.Len(t, res.Collections.Tables, 1)
	assert.Equal(t, "Alpha", res.Collections.Parameters[0].UniqueName)
}

func TestSuppressRetainConflictIsSingleError(t *testing.T) {
	a := symtab.NewArena()
	p := a.GetOrCreate("P1", diag.Location{})
	p.Kind = symtab.KindParameter
	p.Parameter = &symtab.ParameterPayload{}

	retain := a.GetOrCreate("anon_retain", diag.Location{})
	retain.Kind = symtab.KindAnonGroup
	retain.Group = &symtab.GroupPayload{Members: []string{"P1"}, Variant: "parameters_retain"}

	suppress := a.GetOrCreate("anon_suppress", diag.Location{})
	suppress.Kind = symtab.KindAnonGroup
	suppress.Group = &symtab.GroupPayload{Members: []string{"P1"}, Variant: "parameters_suppress"}

	res, err := Run(a)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Diagnostics.ErrorCount())
	assert.False(t, p.IsSuppressed)
}

func TestShortNameFallback(t *testing.T) {
	assert.Equal(t, "SEX", shortName("Person::SEX"))
	assert.Equal(t, "Plain", shortName("Plain"))
}
