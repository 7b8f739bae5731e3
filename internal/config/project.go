package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rshade/virtuallist/internal/logging"
)

// projectDirName is the per-project config directory.
const projectDirName = ".virtuallist"

// ResolveProjectDir determines the project-local .virtuallist directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. VIRTUALLIST_PROJECT_DIR env var
//  3. walking up from startDir for an existing .virtuallist directory
//
// Returns an absolute path or empty string if no project is found.
// Does NOT create the directory.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv("VIRTUALLIST_PROJECT_DIR"); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	if startDir == "" {
		return ""
	}

	dir := toAbsProjectDir(ctx, startDir)
	globalDir, _ := GetConfigDir()
	for {
		if dir != globalDir {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				return dir
			}
		}
		parent := filepath.Dir(filepath.Dir(dir))
		next := filepath.Join(parent, projectDirName)
		if next == dir {
			return ""
		}
		dir = next
	}
}

// toAbsProjectDir converts dir to an absolute path and appends ".virtuallist"
// unless it already ends with it.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == projectDirName {
		return abs
	}

	return filepath.Join(abs, projectDirName)
}
