package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// unsetForTest removes key for the duration of the test.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadEnvFiles_ProjectOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	unsetForTest(t, "WB_TEST_SHARED")
	unsetForTest(t, "WB_TEST_GLOBAL_ONLY")

	project := writeEnvFile(t, dir, ".env", "WB_TEST_SHARED=project\n")
	global := writeEnvFile(t, dir, "global/env", "WB_TEST_SHARED=global\nWB_TEST_GLOBAL_ONLY=yes\n")

	require.NoError(t, loadEnvFiles(project, global))
	assert.Equal(t, "project", os.Getenv("WB_TEST_SHARED"))
	assert.Equal(t, "yes", os.Getenv("WB_TEST_GLOBAL_ONLY"))
}

func TestLoadEnvFiles_RealEnvWins(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WB_TEST_REAL", "from-shell")

	project := writeEnvFile(t, dir, ".env", "WB_TEST_REAL=from-file\n")

	require.NoError(t, loadEnvFiles(project))
	assert.Equal(t, "from-shell", os.Getenv("WB_TEST_REAL"))
}

func TestLoadEnvFiles_MissingFilesSkipped(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, loadEnvFiles(filepath.Join(dir, "nope"), filepath.Join(dir, "also-nope")))
}

func TestLoadEnvFiles_QuotesAndComments(t *testing.T) {
	dir := t.TempDir()
	unsetForTest(t, "WB_TEST_QUOTED")
	unsetForTest(t, "WB_TEST_EXPORTED")

	project := writeEnvFile(t, dir, ".env", "# keys\nWB_TEST_QUOTED=\"a b c\"\nexport WB_TEST_EXPORTED=1\n")

	require.NoError(t, loadEnvFiles(project))
	assert.Equal(t, "a b c", os.Getenv("WB_TEST_QUOTED"))
	assert.Equal(t, "1", os.Getenv("WB_TEST_EXPORTED"))
}

func TestGlobalEnvPath(t *testing.T) {
	assert.Equal(t, filepath.Join("weatherbot", "env"), filepath.Join(filepath.Base(filepath.Dir(GlobalEnvPath())), "env"))
}
