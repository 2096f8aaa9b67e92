// Package version reports build information for the command-line tools.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/sdiscovery/version.Version=1.2.0" ./cmd/sdiscovery
package version
