// Package version holds build-time version information.
// Values are injected via -ldflags at release build time.
package version

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit the build was produced from.
	Commit = "unknown"
)
