package sendgrid

import (
	"runtime"
)

// Version information for the adapter library.
// These values are injected during build time via ldflags.
// The values below are fallbacks for development builds.
var (
	// Version is the semantic version of the library.
	Version = "dev"

	// GitCommit is the git commit hash when the binary was built.
	GitCommit = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// UserAgent returns the User-Agent header value sent with every delivery
// request.
func UserAgent() string {
	return "lattiq-sendgrid/" + Version + ";" + runtime.Version()
}
