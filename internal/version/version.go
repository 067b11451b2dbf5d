// Package version carries build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/griddle/internal/version.Version=v1.0.0"
package version

import "fmt"

// Version is the release version of the griddle binary.
var Version = "unknown"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the metadata for --version.
func String() string {
	if GitCommit == "unknown" && BuildTime == "unknown" {
		return "griddle " + Version
	}
	return fmt.Sprintf("griddle %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
