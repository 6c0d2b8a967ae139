// Package version holds build metadata, overridden at link time:
//
//	go build -ldflags "-X oomph/pkg/version.GitCommit=$(git rev-parse --short HEAD)"
package version

var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)
