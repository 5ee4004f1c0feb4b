// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Framecast is the canonical application identifier used for filesystem paths, the D-Bus bus name and CLI branding.
	Framecast = "framecast"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the HTTP User-Agent string sent when fetching frame artwork from a remote origin.
	UserAgent = "framecast/" + Version
)

// Build metadata injected through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
