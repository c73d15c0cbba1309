// Package version exposes build information injected through -ldflags.
package version

// Build information, overridden at link time:
//
//	-ldflags "-X github.com/oshokin/subsonic-grabber/internal/version.Version=1.2.0"
//
//nolint:gochecknoglobals // Set by the linker.
var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the VCS revision of the build.
	Commit = "none"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// Short returns the version number.
func Short() string {
	return Version
}

// Full returns the version number with commit and build time.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}
