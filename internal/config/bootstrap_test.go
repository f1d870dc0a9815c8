package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUserConfigSeedsFromDefault(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "default.yml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("server:\n  port: 38472\n"), 0o644))

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	got, err := os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Equal(t, "server:\n  port: 38472\n", string(got))
}

func TestEnsureUserConfigKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "default.yml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("server:\n  port: 38472\n"), 0o644))

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	userPath := filepath.Join(dataDir, "config.yml")
	require.NoError(t, os.WriteFile(userPath, []byte("# edited by hand\n"), 0o644))

	got, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, userPath, got)

	body, err := os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Equal(t, "# edited by hand\n", string(body))
}

func TestEnsureUserConfigMissingDefault(t *testing.T) {
	dir := t.TempDir()
	_, err := EnsureUserConfig(dir, filepath.Join(dir, "nope.yml"))
	assert.Error(t, err)
}
