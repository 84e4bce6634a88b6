package cppgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmpp/ompp-core/internal/diag"
	"github.com/openmpp/ompp-core/internal/resolve"
	"github.com/openmpp/ompp-core/internal/symtab"
)

func TestEmitIsDeterministicAsideFromTimestamp(t *testing.T) {
	arena := symtab.NewArena()
	p := arena.GetOrCreate("Alpha", diag.Location{})
	p.Kind = symtab.KindParameter
	p.Parameter = &symtab.ParameterPayload{Source: symtab.ParamScenario}

	coll := resolve.Collections{Parameters: []*symtab.Symbol{p}}

	a1 := Emit(arena, coll, Options{ModelName: "M", BuildTimestamp: "T1"})
	a2 := Emit(arena, coll, Options{ModelName: "M", BuildTimestamp: "T2"})

	assert.Equal(t, a1.Declarations, a2.Declarations)
	assert.Equal(t, a1.Definitions, a2.Definitions) // no timestamp line in definitions body differences beyond header comment
	assert.NotEqual(t, a1.TypesTier0, a2.TypesTier0)
}

func TestEmitFixedParamsOnlyIncludesFixedSource(t *testing.T) {
	arena := symtab.NewArena()
	fixed := arena.GetOrCreate("FixedP", diag.Location{})
	fixed.Kind = symtab.KindParameter
	fixed.Parameter = &symtab.ParameterPayload{Source: symtab.ParamFixed, Initializer: []string{"1", "2"}}

	scenario := arena.GetOrCreate("ScenarioP", diag.Location{})
	scenario.Kind = symtab.KindParameter
	scenario.Parameter = &symtab.ParameterPayload{Source: symtab.ParamScenario}

	coll := resolve.Collections{Parameters: []*symtab.Symbol{fixed, scenario}}
	out := emitFixedParams(coll)

	assert.Contains(t, out, "FixedP")
	assert.NotContains(t, out, "ScenarioP")
}

func TestTopoSortTablesOrdersDependenciesFirst(t *testing.T) {
	a := arenaWithTableDependency(t)
	tables := a.AllOfKind(symtab.KindEntityTable)
	order, err := topoSortTables(tables)
	require.NoError(t, err)
	require.Len(t, order, 2)

	idxBase := indexOf(order, "Base")
	idxDerived := indexOf(order, "Derived")
	assert.Less(t, idxBase, idxDerived)
}

func arenaWithTableDependency(t *testing.T) *symtab.Arena {
	t.Helper()
	a := symtab.NewArena()
	base := a.GetOrCreate("Base", diag.Location{})
	base.Kind = symtab.KindEntityTable
	base.Table = &symtab.TablePayload{}

	derived := a.GetOrCreate("Derived", diag.Location{})
	derived.Kind = symtab.KindEntityTable
	derived.Table = &symtab.TablePayload{Requires: map[string]bool{"Base": true}}
	return a
}

func indexOf(ss []string, v string) int {
	for i, s := range ss {
		if s == v {
			return i
		}
	}
	return -1
}
