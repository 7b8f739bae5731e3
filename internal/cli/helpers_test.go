package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rshade/virtuallist/internal/cli"
	"github.com/rshade/virtuallist/internal/config"
)

// setupCLITest isolates the global config directory, project lookup and
// global config state. It returns the config home.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("VIRTUALLIST_HOME", home)
	t.Setenv("VIRTUALLIST_LOG_LEVEL", "error")
	t.Setenv("VIRTUALLIST_PROJECT_DIR", filepath.Join(t.TempDir(), "none"))
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// executeCmd runs the root command with args and returns stdout.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
