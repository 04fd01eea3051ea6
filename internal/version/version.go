// Package version carries shopdex build metadata.
package version

import "fmt"

// Set with -ldflags "-X github.com/kailas-cloud/shopdex/internal/version.Version=...".
//
//nolint:gochecknoglobals // ldflags targets
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders "shopdex <version> (<commit>, built <date>)".
func String() string {
	return fmt.Sprintf("shopdex %s (%s, built %s)", Version, Commit, Date)
}
