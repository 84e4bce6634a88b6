package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("// test"), 0o644))
}

func TestDSLModulesFindsNestedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "code/Model.ompp")
	writeFile(t, dir, "code/lib/Common.mpp")
	writeFile(t, dir, "code/notes.txt")

	s := New(dir)
	files, err := s.DSLModules(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestOmppIgnoreExcludesMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Model.ompp")
	writeFile(t, dir, "scratch/Draft.ompp")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".omppignore"), []byte("scratch/\n"), 0o644))

	s := New(dir)
	files, err := s.DSLModules(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "Model.ompp")
}

func TestResolveUseDirsSplitsOnSemicolonAndComma(t *testing.T) {
	dirs := ResolveUseDirs("./libA; ./libB,./libC")
	assert.Equal(t, []string{"./libA", "./libB", "./libC"}, dirs)
}

func TestParameterNameFromFile(t *testing.T) {
	assert.Equal(t, "StartingPopulationSize", ParameterNameFromFile("/a/b/StartingPopulationSize.csv"))
}
