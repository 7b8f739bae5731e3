// Package version reports build metadata injected with -ldflags.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/rshade/virtuallist/pkg/version.version=v1.2.3"
//
//nolint:gochecknoglobals // Populated by the linker.
var (
	version   = "0.0.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the release version without a leading "v".
func GetVersion() string {
	if v, err := semver.NewVersion(version); err == nil {
		return v.String()
	}
	return version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// IsRelease reports whether the version is a valid semver without a prerelease tag.
func IsRelease() bool {
	v, err := semver.NewVersion(version)
	return err == nil && v.Prerelease() == ""
}

// String returns a one-line description for --version output.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", GetVersion(), GetCommit(), GetBuildDate())
}
