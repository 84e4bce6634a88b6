package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmpp/ompp-core/internal/diag"
)

func TestGetOrCreatePlaceholder(t *testing.T) {
	a := NewArena()
	s := a.GetOrCreate("SEX", diag.Location{File: "a.mpp", Line: 3})
	assert.True(t, s.IsPlaceholder())
	assert.Equal(t, 1, a.Len())

	again := a.GetOrCreate("SEX", diag.Location{File: "b.mpp", Line: 9})
	assert.Same(t, s, again, "GetOrCreate must return the same slot for the same name")
}

func TestMorphPreservesIdentity(t *testing.T) {
	a := NewArena()
	s := a.GetOrCreate("SEX", diag.Location{File: "a.mpp", Line: 3})

	morphed, err := a.Morph("SEX", KindClassification, diag.Location{})
	require.NoError(t, err)
	assert.Same(t, s, morphed)
	assert.Equal(t, KindClassification, s.Kind)
	assert.False(t, s.IsPlaceholder())
}

func TestMorphConflict(t *testing.T) {
	a := NewArena()
	a.GetOrCreate("SEX", diag.Location{})
	_, err := a.Morph("SEX", KindClassification, diag.Location{})
	require.NoError(t, err)

	_, err = a.Morph("SEX", KindParameter, diag.Location{})
	assert.Error(t, err)
}

func TestMorphUnknown(t *testing.T) {
	a := NewArena()
	_, err := a.Morph("GHOST", KindParameter, diag.Location{})
	assert.Error(t, err)
}

func TestAllOfKindSortedByName(t *testing.T) {
	a := NewArena()
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		a.GetOrCreate(name, diag.Location{})
		_, err := a.Morph(name, KindParameter, diag.Location{})
		require.NoError(t, err)
	}
	names := []string{}
	for _, s := range a.AllOfKind(KindParameter) {
		names = append(names, s.UniqueName)
	}
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, names)
}

func TestPlaceholders(t *testing.T) {
	a := NewArena()
	a.GetOrCreate("Known", diag.Location{})
	a.GetOrCreate("Unknown", diag.Location{})
	_, err := a.Morph("Known", KindParameter, diag.Location{})
	require.NoError(t, err)

	ph := a.Placeholders()
	require.Len(t, ph, 1)
	assert.Equal(t, "Unknown", ph[0].UniqueName)
}
