package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOptionsRequiresModelName(t *testing.T) {
	_, err := BuildOptionsFromFlags([]string{})
	assert.Error(t, err)
}

func TestBuildOptionsFromFlags(t *testing.T) {
	opt, err := BuildOptionsFromFlags([]string{"-m", "RiskPaths", "--scenario", "Default"})
	require.NoError(t, err)
	assert.Equal(t, "RiskPaths", opt.ModelName)
	assert.Equal(t, "Default", opt.ScenarioName)
	assert.Equal(t, "EN", opt.MessageLanguage)
}

func TestIniFileFillsUnsetFlags(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "ompp.ini")
	require.NoError(t, os.WriteFile(iniPath, []byte("ModelName=FromIni\nMessageLanguage=FR\n"), 0o644))

	opt, err := BuildOptionsFromFlags([]string{"--ini", iniPath})
	require.NoError(t, err)
	assert.Equal(t, "FromIni", opt.ModelName)
	assert.Equal(t, "FR", opt.MessageLanguage)
}

func TestCommandLineWinsOverIniFile(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "ompp.ini")
	require.NoError(t, os.WriteFile(iniPath, []byte("ModelName=FromIni\n"), 0o644))

	opt, err := BuildOptionsFromFlags([]string{"-m", "FromCLI", "--ini", iniPath})
	require.NoError(t, err)
	assert.Equal(t, "FromCLI", opt.ModelName)
}
