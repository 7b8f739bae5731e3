package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rshade/virtuallist/internal/cli"
	"github.com/rshade/virtuallist/internal/config"
)

func TestConfigInit_Global(t *testing.T) {
	home := setupCLITest(t)

	out, err := executeCmd(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, config.SchemaVersion, cfg.SchemaVersion)
	assert.Equal(t, 3, cfg.Window.BufferAfter)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	home := setupCLITest(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  buffer_after: 9\n"), 0o600))

	_, err := executeCmd(t, "config", "init")
	require.ErrorIs(t, err, cli.ErrConfigExists)

	_, err = executeCmd(t, "config", "init", "--force")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "buffer_after: 9")
}

func TestConfigInit_Project(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()

	out, err := executeCmd(t, "config", "init", "--project", "--project-dir", projectRoot)
	require.NoError(t, err)
	assert.Contains(t, out, "Created .gitignore")

	assert.FileExists(t, filepath.Join(projectRoot, ".virtuallist", "config.yaml"))
	assert.FileExists(t, filepath.Join(projectRoot, ".virtuallist", ".gitignore"))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "valid", content: "schema_version: 1.2.0\nwindow:\n  buffer_before: 1\n"},
		{name: "future schema", content: "schema_version: 2.0.0\n", wantErr: true},
		{name: "zero buffer", content: "window:\n  buffer_after: 0\n", wantErr: true},
		{name: "bad yaml", content: "window: [\n", wantErr: true},
		{name: "bad log format", content: "logging:\n  format: xml\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			out, err := executeCmd(t, "config", "validate", "--config", path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 2, cli.ExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "Configuration is valid")
		})
	}
}

func TestConfigValidate_Verbose(t *testing.T) {
	setupCLITest(t)
	t.Setenv("VIRTUALLIST_WINDOW_INTERVAL", "75ms")

	out, err := executeCmd(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Recompute interval: 75ms")
	assert.Contains(t, out, "Window buffer: 2 before, 3 after")
}

func TestConfigValidate_MissingExplicitFile(t *testing.T) {
	setupCLITest(t)

	_, err := executeCmd(t, "config", "validate", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, 2, cli.ExitCode(err))
}

func TestConfigShow_AppliesEnv(t *testing.T) {
	setupCLITest(t)
	t.Setenv("VIRTUALLIST_WINDOW_BUFFER_AFTER", "5")

	out, err := executeCmd(t, "config", "show")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 5, cfg.Window.BufferAfter)
	assert.Equal(t, 2, cfg.Window.BufferBefore)
}

func TestRootCmd_BadConfigExitCode(t *testing.T) {
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("schema_version: 9.0.0\n"), 0o600))

	_, err := executeCmd(t, "list", "--generate", "1")
	require.Error(t, err)
	assert.Equal(t, 2, cli.ExitCode(err))
}

func TestVersionCmd(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "test\n", out)

	out, err = executeCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "virtuallist test (commit")
}
