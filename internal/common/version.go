package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Version information (set via -ldflags during build)
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// versionFileName sits beside the executable and overrides Version when present
const versionFileName = ".version"

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// GetBuild returns the build timestamp
func GetBuild() string {
	return Build
}

// GetGitCommit returns the git commit hash
func GetGitCommit() string {
	return GitCommit
}

// GetFullVersion returns version with build info
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}

// VersionInfo is the body of GET /api/version
func VersionInfo() map[string]string {
	return map[string]string{
		"name":       AppName,
		"version":    Version,
		"build":      Build,
		"git_commit": GitCommit,
	}
}

// LoadVersionFromFile applies the .version file beside the executable, if any,
// and returns the resulting version
func LoadVersionFromFile() string {
	exePath, err := os.Executable()
	if err != nil {
		return Version
	}
	return loadVersionFrom(filepath.Join(filepath.Dir(exePath), versionFileName))
}

func loadVersionFrom(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return Version
	}
	if version := strings.TrimSpace(string(data)); version != "" {
		Version = version
	}
	return Version
}
