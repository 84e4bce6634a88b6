package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagCounts(t *testing.T) {
	var b Bag
	b.Warning(Location{File: "m.ompp", Line: 3, Col: 1}, "enumerator %q shadows a keyword", "int")
	b.Error(Location{File: "m.ompp", Line: 10, Col: 4}, "unknown symbol %q", "Foo")

	require.False(t, b.HasErrors() == false && b.ErrorCount() != 1)
	assert.Equal(t, 1, b.ErrorCount())
	assert.Equal(t, 1, b.WarningCount())
	assert.True(t, b.HasErrors())
	assert.Len(t, b.Items(), 2)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: SeverityError, Loc: Location{File: "a.ompp", Line: 1, Col: 2}, Message: "boom"}
	assert.Equal(t, "a.ompp:1:2 : error : boom", d.String())
}

func TestLocationNoLine(t *testing.T) {
	l := Location{File: "model"}
	assert.Equal(t, "model", l.String())
}

func TestMerge(t *testing.T) {
	var main, sub Bag
	main.Error(Location{File: "x"}, "e1")
	sub.Warning(Location{File: "y"}, "w1")
	sub.Error(Location{File: "y"}, "e2")

	main.Merge(&sub)
	assert.Equal(t, 2, main.ErrorCount())
	assert.Equal(t, 1, main.WarningCount())
	assert.Len(t, main.Items(), 3)
}

func TestFatalError(t *testing.T) {
	var err error = &FatalError{Loc: Location{File: "f", Line: 1, Col: 1}, Message: "unrecoverable"}
	assert.EqualError(t, err, "f:1:1 : fatal : unrecoverable")
}
