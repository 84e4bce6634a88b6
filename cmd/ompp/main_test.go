package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeParamFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("1\n"), 0o644))
}

func TestRunBuildRequiresModelName(t *testing.T) {
	_, err := runBuild([]string{})
	assert.Error(t, err)
}

func TestRunBuildResolvesScannedParameters(t *testing.T) {
	dir := t.TempDir()
	writeParamFile(t, dir, "StartingPopulationSize.csv")

	result, err := runBuild([]string{"-m", "TestModel", "-p", dir, "-i", dir})
	require.NoError(t, err)
	assert.False(t, result.res.Diagnostics.HasErrors())
	assert.NotEmpty(t, result.artefacts.TypesTier0)
	assert.Contains(t, result.artefacts.TypesTier0, "TestModel")
}

func TestRunBuildWritesArtefactsToOutputDir(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "build")
	writeParamFile(t, dir, "Param1.csv")

	_, err := runBuild([]string{"-m", "TestModel", "-p", dir, "-i", dir, "-o", outDir, "--no-metadata"})
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestRunCheckIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeParamFile(t, dir, "Param1.csv")

	err := runCheck([]string{"-m", "TestModel", "-p", dir, "-i", dir, "--no-metadata"})
	assert.NoError(t, err)
}

func TestRunEmitSQLRequiresSQLDir(t *testing.T) {
	dir := t.TempDir()
	err := runEmitSQL([]string{"-m", "TestModel", "-i", dir})
	assert.Error(t, err)
}

func TestRunEmitSQLWritesDatabase(t *testing.T) {
	dir := t.TempDir()
	sqlDir := filepath.Join(dir, "sql")
	require.NoError(t, os.MkdirAll(sqlDir, 0o755))
	writeParamFile(t, dir, "Param1.csv")

	err := runEmitSQL([]string{"-m", "TestModel", "-p", dir, "-i", dir, "--sql-dir", sqlDir})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(sqlDir, "TestModel.sqlite"))
	assert.NoError(t, err)
}
