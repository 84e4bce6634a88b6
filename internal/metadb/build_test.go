package metadb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmpp/ompp-core/internal/diag"
	"github.com/openmpp/ompp-core/internal/resolve"
	"github.com/openmpp/ompp-core/internal/symtab"
)

func TestBuildEmitsParamRowsAndModelDigest(t *testing.T) {
	a := symtab.NewArena()
	p1 := a.GetOrCreate("Zeta", diag.Location{})
	p1.Kind = symtab.KindParameter
	p1.Parameter = &symtab.ParameterPayload{Source: symtab.ParamScenario}

	p2 := a.GetOrCreate("Alpha", diag.Location{})
	p2.Kind = symtab.KindParameter
	p2.Parameter = &symtab.ParameterPayload{Source: symtab.ParamScenario}

	coll := resolve.Collections{Parameters: []*symtab.Symbol{p1, p2}}
	h := Build("TestModel", coll, []string{"EN"})

	require.Len(t, h.Params, 2)
	assert.NotEmpty(t, h.Model.Digest)
}

func TestBuildSkipsSuppressedParameters(t *testing.T) {
	a := symtab.NewArena()
	p := a.GetOrCreate("Suppressed", diag.Location{})
	p.Kind = symtab.KindParameter
	p.Parameter = &symtab.ParameterPayload{Source: symtab.ParamScenario}
	p.IsSuppressed = true

	coll := resolve.Collections{Parameters: []*symtab.Symbol{p}}
	h := Build("M", coll, nil)
	assert.Empty(t, h.Params)
}

func TestDigestStableUnderFieldOrder(t *testing.T) {
	d1 := Digest("b", "a", "c")
	d2 := Digest("c", "b", "a")
	assert.Equal(t, d1, d2)
}

func TestWorksetParamRowsRequireInitializer(t *testing.T) {
	a := symtab.NewArena()
	p := a.GetOrCreate("NoInit", diag.Location{})
	p.Kind = symtab.KindParameter
	p.Parameter = &symtab.ParameterPayload{Source: symtab.ParamScenario}

	coll := resolve.Collections{Parameters: []*symtab.Symbol{p}}
	_, err := WorksetParamRows(1, coll)
	assert.Error(t, err)
}
