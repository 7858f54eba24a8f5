package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vertexkv/vertexkv/pkg/config"
)

func TestLoadOrBootstrapConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "vertexkv_up_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dataDir := filepath.Join(tmpDir, "data")
	configPath := filepath.Join(tmpDir, "config.yaml")
	cmd := &cobra.Command{}

	t.Run("bootstrap when config is missing", func(t *testing.T) {
		cfg, err := loadOrBootstrapConfig(cmd, configPath, dataDir)
		require.NoError(t, err)
		assert.Equal(t, dataDir, cfg.DataDir)
		assert.True(t, config.ConfigExists(configPath))
	})

	t.Run("load when config already exists", func(t *testing.T) {
		cfg, err := loadOrBootstrapConfig(cmd, configPath, dataDir)
		require.NoError(t, err)
		assert.Equal(t, dataDir, cfg.DataDir)
	})

	t.Run("bootstrap failure on invalid path", func(t *testing.T) {
		_, err := loadOrBootstrapConfig(cmd, "/invalid/path/config.yaml", dataDir)
		assert.Error(t, err)
	})
}

func TestUpCommandFlagOverrides(t *testing.T) {
	cfg := &config.Config{DataDir: "./data", Port: 8080, Bind: "127.0.0.1"}

	dataDir := "/flag/data/dir"
	port := 9000
	bind := "0.0.0.0"

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if port != 8080 {
		cfg.Port = port
	}
	if bind != "127.0.0.1" {
		cfg.Bind = bind
	}

	assert.Equal(t, "/flag/data/dir", cfg.DataDir)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Bind)
}
