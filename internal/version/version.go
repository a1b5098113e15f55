package version

import (
	_ "embed"
	"runtime"
	"strings"
)

//go:embed VERSION
var versionFile string

// Build-time variables set via ldflags
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// planFormat is the version of the plan JSON layout
const planFormat = "1.0.0"

// App returns the current version of modulestore
func App() string {
	return strings.TrimSpace(versionFile)
}

// PlanFormat returns the version of the plan JSON layout
func PlanFormat() string {
	return planFormat
}

// GetGitCommit returns the git commit hash
func GetGitCommit() string {
	return GitCommit
}

// GetBuildDate returns the git commit date
func GetBuildDate() string {
	return BuildDate
}

// Platform returns the OS/architecture combination
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// String returns the one-line version banner
func String() string {
	return "modulestore v" + App() + "@" + GitCommit + " " + Platform() + " " + BuildDate
}
