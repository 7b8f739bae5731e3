package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/virtuallist/internal/config"
)

func TestEnsureGitignore_CreatesNewFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "*.log")
	assert.NotContains(t, string(data), "config.yaml")
}

func TestEnsureGitignore_DoesNotOverwriteExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	custom := "# mine\nnode_modules/\n"
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestEnsureGitignore_CreatesParentDirectory(t *testing.T) {
	t.Parallel()

	nested := filepath.Join(t.TempDir(), "sub", "deep", config.ProjectDirName())

	created, err := config.EnsureGitignore(nested)
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, filepath.Join(nested, ".gitignore"))
}

func TestProjectConfigPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("proj", ".virtuallist", "config.yaml"),
		config.ProjectConfigPath(filepath.Join("proj", ".virtuallist")))
}
