// Package buildinfo holds version information stamped in at build time:
//
//	go build -ldflags "-X github.com/pandora-auth-ros-pkg/pandoradep/pkg/buildinfo.Version=v0.5.0 \
//	    -X github.com/pandora-auth-ros-pkg/pandoradep/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/pandora-auth-ros-pkg/pandoradep/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/pandoradep
package buildinfo

import "fmt"

var (
	Version = "dev"     // Semantic version
	Commit  = "none"    // Git commit SHA
	Date    = "unknown" // Build timestamp
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
