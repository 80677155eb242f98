package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitWithCustomPath validates custom config path
func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	require.NoError(t, Init(customConfigPath))

	assert.Equal(t, filepath.Join(tempDir, "custom", "path"), GetConfigDir())
	assert.Equal(t, customConfigPath, GetConfigFile())

	info, err := os.Stat(GetConfigDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaults(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, Init(filepath.Join(tempDir, "config.toml")))

	assert.Equal(t, "http://localhost:8000", GetString("api.base_url"))
	assert.Equal(t, 30, GetInt("api.timeout"))
	assert.Equal(t, "text", GetString("output.format"))
	assert.Equal(t, "remote", GetString("storage.driver"))
}

func TestSetStringPersists(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")
	require.NoError(t, Init(path))

	require.NoError(t, SetString("backend.mode", "demo"))
	assert.Equal(t, "demo", GetString("backend.mode"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "demo")
}

func TestOverrideDoesNotWrite(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")
	require.NoError(t, Init(path))

	Override("output.format", "json")
	assert.Equal(t, "json", GetString("output.format"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs"), expandPath("~/logs"))
	assert.Equal(t, "/var/log", expandPath("/var/log"))
}
