package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// gitignoreContent keeps logs out of version control; config.yaml is tracked.
const gitignoreContent = `# virtuallist project data (generated by "virtuallist config init --project")
logs/
*.log
`

// ProjectDirName returns the name of the per-project config directory.
func ProjectDirName() string {
	return projectDirName
}

// ProjectConfigPath returns the config file inside a project directory.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, configFileName)
}

// EnsureGitignore writes dir/.gitignore unless one exists. It reports whether
// a file was created and never overwrites.
func EnsureGitignore(dir string) (bool, error) {
	path := filepath.Join(dir, ".gitignore")

	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}

	if err = os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, err)
	}
	//nolint:gosec // .gitignore is meant to be world-readable.
	if err = os.WriteFile(path, []byte(gitignoreContent), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
