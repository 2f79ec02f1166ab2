// Package buildinfo carries version metadata stamped at build time.
package buildinfo

import "fmt"

// Set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String renders a one-line summary of the version metadata.
func String() string {
	return fmt.Sprintf("redstub-server %s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
