package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapSchemaFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "vertexkv_init_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	schemaPath := filepath.Join(tmpDir, "schema.yaml")

	t.Run("writes a fresh schema", func(t *testing.T) {
		created, err := bootstrapSchemaFile(schemaPath, false)
		require.NoError(t, err)
		assert.True(t, created)
		assert.FileExists(t, schemaPath)

		content, err := os.ReadFile(schemaPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "vertex:")
		assert.Contains(t, string(content), "groups:")
	})

	t.Run("leaves an existing schema alone without force", func(t *testing.T) {
		err := os.WriteFile(schemaPath, []byte("custom: true\n"), 0644)
		require.NoError(t, err)

		created, err := bootstrapSchemaFile(schemaPath, false)
		require.NoError(t, err)
		assert.False(t, created)

		content, err := os.ReadFile(schemaPath)
		require.NoError(t, err)
		assert.Equal(t, "custom: true\n", string(content))
	})

	t.Run("overwrites with force", func(t *testing.T) {
		created, err := bootstrapSchemaFile(schemaPath, true)
		require.NoError(t, err)
		assert.True(t, created)

		content, err := os.ReadFile(schemaPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "vertex:")
	})

	t.Run("invalid path", func(t *testing.T) {
		_, err := bootstrapSchemaFile("/invalid/path/that/does/not/exist/schema.yaml", true)
		assert.Error(t, err)
	})
}
