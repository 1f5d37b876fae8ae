// Package version holds build metadata stamped in with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/simehaa/AlievPanfilovCPU/internal/version.Version=v0.3.0" ./cmd/meshanim
package version

import "fmt"

var (
	// Version is the release tag of the meshanim binary.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is when the binary was built.
	BuildTime = "unknown"
)

// String formats the build metadata on one line.
func String() string {
	return fmt.Sprintf("meshanim %s (%s, built %s)", Version, GitSHA, BuildTime)
}
