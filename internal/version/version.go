// Package version holds build information for the service and CLI.
// The variables are set at build time with -ldflags "-X ...".
package version

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// String returns the version with whatever build metadata is known
func String() string {
	s := Version
	if GitCommit != "" {
		s += fmt.Sprintf(" (%s)", GitCommit)
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
