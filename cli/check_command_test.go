package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSchemaPath_ExplicitFlagWins(t *testing.T) {
	path, err := resolveSchemaPath("/explicit/schema.dvl", "/data/file.json")
	require.NoError(t, err)
	assert.Equal(t, "/explicit/schema.dvl", path)
}

func TestResolveSchemaPath_SiblingDVLFile(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "config.json")
	siblingSchema := filepath.Join(dir, "config.dvl")
	require.NoError(t, os.WriteFile(siblingSchema, []byte("any"), 0644))

	path, err := resolveSchemaPath("", dataPath)
	require.NoError(t, err)
	assert.Equal(t, siblingSchema, path)
}

func TestResolveSchemaPath_NoMatchIsAnError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DVL_CONFIG_HOME", dir)

	_, err := resolveSchemaPath("", filepath.Join(dir, "unrelated.json"))
	assert.Error(t, err)
}

func TestRunCheck_ValidInputExitsCleanly(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "s.dvl")
	dataPath := filepath.Join(dir, "d.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{ name: string }`), 0644))
	require.NoError(t, os.WriteFile(dataPath, []byte(`{"name": "ok"}`), 0644))

	err := runCheck(schemaPath, dataPath)
	assert.NoError(t, err)
}

func TestRunCheck_ValidationFailureExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "s.dvl")
	dataPath := filepath.Join(dir, "d.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{ name: string }`), 0644))
	require.NoError(t, os.WriteFile(dataPath, []byte(`{"name": 1}`), 0644))

	err := runCheck(schemaPath, dataPath)
	assert.Error(t, err)
}
